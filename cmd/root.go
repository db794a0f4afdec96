package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/notify"
	"github.com/nvasani/tempo/internal/schedule"
	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
	"github.com/nvasani/tempo/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Time-interval tracking over a plain text file",
}

func Execute() error {
	// Set here so the build metadata injected by main's init is visible.
	rootCmd.Version = version.GetVersion()
	rootCmd.SetVersionTemplate(version.GetVersionInfo() + "\n")
	return rootCmd.Execute()
}

// openStore loads the configuration and the entry file. Commands share it so
// every surface sees the same file.
func openStore() (*store.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	st := store.New(cfg.DataFile)
	if _, err := st.Load(); err != nil {
		return nil, cfg, err
	}
	return st, cfg, nil
}

func init() {
	cfg, cfgErr := config.Load()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfgErr == nil && cfg.Reminder.Enabled && os.Getenv("TEMPO_NO_REMINDER") != "1" {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			go func() {
				schedule.RunConfigured(ctx, cfg, func() {
					st := store.New(cfg.DataFile)
					tracked := 0
					if _, err := st.Load(); err == nil {
						tracked = st.TotalMinutesForDate(timeutil.FormatDate(time.Now()))
					}
					title, msg := notify.FormatReminder(tracked)
					_ = notify.Info(title, msg)
				})
			}()
			// Process exit delivers the signal and cancels.
			_ = cancel
		}
		return nil
	}

	rootCmd.AddCommand(addCmd, listCmd, summaryCmd, deleteCmd, editCmd, tuiCmd, timerCmd)
}
