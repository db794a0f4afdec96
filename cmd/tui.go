package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/ui"
)

// tuiCmd launches the Bubble Tea week grid.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive week grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return ui.Run(cfg)
	},
}
