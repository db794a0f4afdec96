package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <date> <start> <end>",
	Short: "Remove an entry's line from the log file",
	Long: `Identifies the entry by its date and times. With duplicate spans the
first matching line is removed.

	tempo delete 2025-01-15 09:00 10:35`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}

		id := store.EntryID(args[0], args[1], args[2])
		before := len(st.EntriesForDate(args[0]))
		if err := st.Delete(id); err != nil {
			return err
		}
		if len(st.EntriesForDate(args[0])) == before {
			fmt.Println("No matching entry.")
			return nil
		}
		fmt.Println("Deleted.")
		return nil
	},
}
