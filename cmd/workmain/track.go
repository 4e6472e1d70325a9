package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	trackTime     string
	trackCategory string
	trackDate     string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Log and summarize time entries",
}

var trackAddCmd = &cobra.Command{
	Use:   "add <duration> <description...>",
	Short: "Log time, e.g. 'track add 1h30m Sprint planning #ilo'",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateFlag(trackDate)
		if err != nil {
			return err
		}

		entry, invalid, err := svc.AddTimeEntry(strings.Join(args[1:], " "), args[0], trackTime, trackCategory, day)
		if err != nil {
			return err
		}

		fmt.Printf("%s logged %.2fh: %s\n", okStyle.Render("✓"), entry.DurationHours, entry.Description)
		if entry.EntryTime != "" {
			fmt.Println("  at " + entry.EntryTime)
		}
		if entry.Category != "" {
			fmt.Println("  category: " + entry.Category)
		}
		for _, bad := range invalid {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  unknown tag #%s ignored", bad)))
		}
		return nil
	},
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateFlag(trackDate)
		if err != nil {
			return err
		}
		entries, err := svc.EntriesForDate(day, trackCategory)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(subtleStyle.Render("no entries for " + day.Format("2006-01-02")))
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%4d  %5.2fh  %s", e.ID, e.DurationHours, e.Description)
			if e.Category != "" {
				line += subtleStyle.Render("  [" + e.Category + "]")
			}
			if e.EntryTime != "" {
				line += subtleStyle.Render("  at " + e.EntryTime)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var trackSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the hour breakdown for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateFlag(trackDate)
		if err != nil {
			return err
		}
		summary, err := svc.SummarizeDay(day)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(day.Format("Monday, January 02, 2006")))
		categories := make([]string, 0, len(summary.CategoryHours))
		for c := range summary.CategoryHours {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-20s %6.2fh\n", c, summary.CategoryHours[c])
		}
		fmt.Printf("  %-20s %6.2fh (%d entries)\n", headerStyle.Render("total"), summary.TotalHours, summary.EntryCount)
		return nil
	},
}

func init() {
	trackCmd.PersistentFlags().StringVarP(&trackDate, "date", "d", "", "date (YYYY-MM-DD, default today)")
	trackAddCmd.Flags().StringVarP(&trackTime, "at", "t", "", "time of day (14:30, 1430, 2:30pm, 230pm)")
	trackAddCmd.Flags().StringVarP(&trackCategory, "category", "c", "", "category for hour breakdowns")
	trackListCmd.Flags().StringVarP(&trackCategory, "category", "c", "", "only this category")

	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackListCmd)
	trackCmd.AddCommand(trackSummaryCmd)
}
