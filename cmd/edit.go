package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
)

var (
	editStart string
	editEnd   string
	editDate  string
	editText  string
)

var editCmd = &cobra.Command{
	Use:   "edit <date> <start> <end>",
	Short: "Rewrite an entry in place",
	Long: `Identifies the entry by its current date and times, then applies the
given flags. Times and tags in --text follow the same rules as the file.

	tempo edit 2025-01-15 09:00 10:35 --end 11:00
	tempo edit 2025-01-15 09:00 10:35 --text "standup prep #work"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}

		id := store.EntryID(args[0], args[1], args[2])

		var p store.Patch
		if editDate != "" {
			if _, err := timeutil.ParseDate(editDate); err != nil {
				return fmt.Errorf("invalid --date %q: %w", editDate, err)
			}
			p.Date = &editDate
		}
		if editStart != "" {
			p.Start = &editStart
		}
		if editEnd != "" {
			p.End = &editEnd
		}
		if cmd.Flags().Changed("text") {
			desc, tags := store.SplitTags(editText)
			p.Description = &desc
			p.Tags = &tags
		}

		if err := st.Update(id, p); err != nil {
			return err
		}
		fmt.Println("Updated.")
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editDate, "date", "", "New date (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&editStart, "start", "", "New start time (HH:MM)")
	editCmd.Flags().StringVar(&editEnd, "end", "", "New end time (HH:MM)")
	editCmd.Flags().StringVar(&editText, "text", "", "New description with optional #tags")
}
