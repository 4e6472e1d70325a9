package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	noteMeeting string
	noteProject string
	noteDate    string
	noteInclude []string
	noteExclude []string
	noteLimit   int
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Capture and list tagged notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a note; hashtags in the text become tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := svc.AddNote(strings.Join(args, " "), noteMeeting, noteProject)
		if err != nil {
			return err
		}

		fmt.Printf("%s note %d added\n", okStyle.Render("✓"), result.Note.ID)
		if len(result.Note.Tags) > 0 {
			fmt.Println("  tags: " + tagStyle.Render(svc.Tags().FormatDisplay(result.Note.Tags)))
		}
		if result.Note.MeetingTitle != "" {
			fmt.Println("  meeting: " + result.Note.MeetingTitle)
		}
		for _, bad := range result.InvalidTags {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  unknown tag #%s ignored", bad)))
		}
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDateFlag(noteDate)
		if err != nil {
			return err
		}
		notes, err := svc.NotesForDate(day, noteInclude, noteExclude)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println(subtleStyle.Render("no notes for " + day.Format("2006-01-02")))
			return nil
		}
		for _, n := range notes {
			line := fmt.Sprintf("%4d  %s", n.ID, n.Content)
			if len(n.Tags) > 0 {
				line += "  " + tagStyle.Render(svc.Tags().FormatDisplay(n.Tags))
			}
			if n.MeetingTitle != "" {
				line += subtleStyle.Render("  (" + n.MeetingTitle + ")")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var noteSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search notes by keyword, most relevant first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := svc.SearchNotes(args[0], noteLimit)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println(subtleStyle.Render("no matches"))
			return nil
		}
		for _, n := range notes {
			fmt.Printf("%4d  %s  %s\n", n.ID, n.CreatedDate.Format("2006-01-02"), n.Content)
		}
		return nil
	},
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteMeeting, "meeting", "m", "", "link to a meeting by title (created if absent)")
	noteAddCmd.Flags().StringVarP(&noteProject, "project", "p", "", "link to an existing project by name")

	noteListCmd.Flags().StringVarP(&noteDate, "date", "d", "", "date (YYYY-MM-DD, default today)")
	noteListCmd.Flags().StringSliceVar(&noteInclude, "tag", nil, "only notes carrying any of these full tag names")
	noteListCmd.Flags().StringSliceVar(&noteExclude, "not-tag", nil, "drop notes carrying any of these full tag names")

	noteSearchCmd.Flags().IntVarP(&noteLimit, "limit", "n", 20, "maximum results")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteSearchCmd)
}
