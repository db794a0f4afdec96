package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/render"
	"github.com/nvasani/tempo/internal/timeutil"
)

var (
	listDate    string
	listFrom    string
	listTo      string
	listWeek    bool
	listFormat  string
	listNoColor bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries (today by default)",
	Long: `Examples:
	tempo list                               # today
	tempo list --week                        # the current week
	tempo list --date 2025-01-15             # one day
	tempo list --from 2025-01-01 --to 2025-01-31 --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore()
		if err != nil {
			return err
		}

		format, err := render.ParseFormat(listFormat)
		if err != nil {
			return err
		}

		from, to, err := resolveRange(cfg.WeekStartDay())
		if err != nil {
			return err
		}

		out, err := render.New(format, !listNoColor).Entries(st.EntriesForRange(from, to))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

// resolveRange turns the date flags into an inclusive ISO range.
func resolveRange(weekStart time.Weekday) (string, string, error) {
	today := timeutil.FormatDate(time.Now())

	switch {
	case listWeek:
		start := timeutil.WeekStart(time.Now(), weekStart)
		return timeutil.FormatDate(start), timeutil.FormatDate(timeutil.AddDays(start, 6)), nil

	case listFrom != "" || listTo != "":
		from, to := listFrom, listTo
		if from == "" {
			from = to
		}
		if to == "" {
			to = from
		}
		for _, d := range []string{from, to} {
			if _, err := timeutil.ParseDate(d); err != nil {
				return "", "", fmt.Errorf("invalid date %q: %w", d, err)
			}
		}
		return from, to, nil

	case listDate != "":
		if _, err := timeutil.ParseDate(listDate); err != nil {
			return "", "", fmt.Errorf("invalid --date %q: %w", listDate, err)
		}
		return listDate, listDate, nil

	default:
		return today, today, nil
	}
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Show a single day (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Range start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Range end (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show the current week")
	listCmd.Flags().StringVar(&listFormat, "format", "default", "Output format: default, table, json, csv")
	listCmd.Flags().BoolVar(&listNoColor, "no-color", false, "Disable colored output")
}
