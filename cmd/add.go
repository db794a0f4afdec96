package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
)

var (
	addDate     string
	addPomodoro bool
	addBreak    bool
)

var addCmd = &cobra.Command{
	Use:   "add <start> <end> [text...]",
	Short: "Append an entry to the log file",
	Long: `Examples:
	tempo add 09:00 10:35 standup prep "#work"     # today by default
	tempo add 12:00 12:30 break                     # a break
	tempo add --date 2025-01-15 14:00 14:25 review --pomodoro`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}

		date := addDate
		if date == "" {
			date = timeutil.FormatDate(time.Now())
		} else if _, err := timeutil.ParseDate(date); err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}

		start, end := args[0], args[1]
		if timeutil.TimeToMinutes(end) <= timeutil.TimeToMinutes(start) {
			return fmt.Errorf("end %s must be after start %s", end, start)
		}

		desc, tags := store.SplitTags(strings.Join(args[2:], " "))
		br := addBreak || strings.EqualFold(desc, "break")
		if br && desc == "" {
			desc = store.BreakDescription
		}

		e, err := st.Add(store.Fields{
			Date:        date,
			Start:       start,
			End:         end,
			Description: desc,
			Tags:        tags,
			Pomodoro:    addPomodoro,
			Break:       br,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s (%s).\n", e.ID, timeutil.FormatDuration(e.DurationMinutes()))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Entry date as YYYY-MM-DD (default today)")
	addCmd.Flags().BoolVar(&addPomodoro, "pomodoro", false, "Mark the entry as a completed pomodoro")
	addCmd.Flags().BoolVar(&addBreak, "break", false, "Mark the entry as a break")
}
