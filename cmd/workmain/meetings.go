package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	meetingsDate      string
	meetingsThreshold float64
)

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "List and find meetings",
}

var meetingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meetings for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateFlag(meetingsDate)
		if err != nil {
			return err
		}
		meetings, err := svc.MeetingsForDate(day)
		if err != nil {
			return err
		}
		if len(meetings) == 0 {
			fmt.Println(subtleStyle.Render("no meetings on " + day.Format("2006-01-02")))
			return nil
		}
		for _, m := range meetings {
			line := fmt.Sprintf("%s - %s  %s",
				m.StartTime.Format("15:04"), m.EndTime.Format("15:04"),
				titleStyle.Render(m.Title))
			if m.IsRecurring {
				line += subtleStyle.Render("  (recurring)")
			}
			fmt.Println(line)
			if len(m.Attendees) > 0 {
				fmt.Println(subtleStyle.Render("  with " + strings.Join(m.Attendees, ", ")))
			}
		}
		return nil
	},
}

var meetingsFindCmd = &cobra.Command{
	Use:   "find <title...>",
	Short: "Fuzzy-find meetings by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := svc.FindMeetings(strings.Join(args, " "), meetingsThreshold)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println(subtleStyle.Render("no matches at or above the threshold"))
			return nil
		}
		for _, match := range matches {
			fmt.Printf("%5.2f  %s  %s\n",
				match.Score,
				match.Meeting.StartTime.Format("2006-01-02 15:04"),
				match.Meeting.Title)
		}
		return nil
	},
}

func init() {
	meetingsListCmd.Flags().StringVarP(&meetingsDate, "date", "d", "", "date (YYYY-MM-DD, default today)")
	meetingsFindCmd.Flags().Float64Var(&meetingsThreshold, "threshold", 0.6, "minimum similarity score in [0,1]")

	meetingsCmd.AddCommand(meetingsListCmd)
	meetingsCmd.AddCommand(meetingsFindCmd)
}
