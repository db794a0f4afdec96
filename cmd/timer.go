package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/ui"
)

// timerCmd opens the pomodoro capture view on its own, without the grid.
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run the pomodoro timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return ui.RunTimer(cfg)
	},
}
