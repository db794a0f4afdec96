package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvasani/tempo/internal/timeutil"
)

var summaryWeek bool

// summaryCmd prints tracked time per day plus a per-tag breakdown.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Tracked-time totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore()
		if err != nil {
			return err
		}

		from := timeutil.FormatDate(time.Now())
		to := from
		if summaryWeek {
			start := timeutil.WeekStart(time.Now(), cfg.WeekStartDay())
			from = timeutil.FormatDate(start)
			to = timeutil.FormatDate(timeutil.AddDays(start, 6))
		}

		entries := st.EntriesForRange(from, to)

		perDay := map[string]int{}
		perTag := map[string]int{}
		breakMins := 0
		total := 0
		for _, e := range entries {
			mins := e.DurationMinutes()
			if e.Break {
				breakMins += mins
				continue
			}
			total += mins
			perDay[e.Date] += mins
			for _, tag := range e.Tags {
				perTag[tag] += mins
			}
		}

		fmt.Printf("%s .. %s\n", from, to)
		for _, date := range sortedKeys(perDay) {
			fmt.Printf("  %s  %s\n", date, timeutil.FormatDuration(perDay[date]))
		}
		if len(perTag) > 0 {
			fmt.Println("by tag:")
			for _, tag := range sortedKeys(perTag) {
				fmt.Printf("  #%-12s %s\n", tag, timeutil.FormatDuration(perTag[tag]))
			}
		}
		fmt.Printf("  %-14s %s", "TOTAL", timeutil.FormatDuration(total))
		if breakMins > 0 {
			fmt.Printf("  (+%s breaks)", timeutil.FormatDuration(breakMins))
		}
		fmt.Println()
		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryWeek, "week", false, "Summarize the current week instead of today")
}
