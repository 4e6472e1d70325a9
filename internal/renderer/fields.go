package renderer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/tags"
)

// NotesSource is the slice of the notes repository the field manager needs.
type NotesSource interface {
	GetDateRange(start, end time.Time, include, exclude []string) ([]*models.Note, error)
}

// TimeEntriesSource is the slice of the time-entries repository the field
// manager needs.
type TimeEntriesSource interface {
	GetDateRange(start, end time.Time, category string) ([]*models.TimeEntry, error)
}

// MeetingsSource is the slice of the meetings repository the field manager
// needs.
type MeetingsSource interface {
	GetDateRange(start, end time.Time) ([]*models.Meeting, error)
}

// ProjectsSource is the slice of the projects repository the field manager
// needs.
type ProjectsSource interface {
	GetActive() ([]*models.Project, error)
}

// FieldManager resolves a section's declared data sources against the
// persistence layer and shapes the results for formatting and prompts.
type FieldManager struct {
	notes    NotesSource
	entries  TimeEntriesSource
	meetings MeetingsSource
	projects ProjectsSource
	tagSys   *tags.System
}

// NewFieldManager wires a field manager to its data sources. Any source may
// be nil; sections declaring it then fetch nothing from it.
func NewFieldManager(notes NotesSource, entries TimeEntriesSource, meetings MeetingsSource, projects ProjectsSource, tagSys *tags.System) *FieldManager {
	return &FieldManager{
		notes:    notes,
		entries:  entries,
		meetings: meetings,
		projects: projects,
		tagSys:   tagSys,
	}
}

// GetSectionData fetches everything a section declares for the inclusive
// date range and computes the aggregate summary. The section's tag filter
// applies to notes and time entries only; meetings and projects carry no
// tags in this model.
func (f *FieldManager) GetSectionData(section *models.Section, start, end time.Time) (models.SectionData, error) {
	var data models.SectionData

	include := section.TagFilter.Include
	exclude := section.TagFilter.Exclude

	for _, source := range section.DataSources {
		switch models.DataSource(source) {
		case models.SourceNotes:
			if f.notes == nil {
				continue
			}
			notes, err := f.notes.GetDateRange(start, end, include, exclude)
			if err != nil {
				return data, fmt.Errorf("fetching notes: %w", err)
			}
			data.Notes = f.noteViews(notes)
		case models.SourceTimeEntries, models.SourceClockify:
			if f.entries == nil {
				continue
			}
			entries, err := f.entries.GetDateRange(start, end, "")
			if err != nil {
				return data, fmt.Errorf("fetching time entries: %w", err)
			}
			data.TimeEntries = filterEntryViews(entryViews(entries), include, exclude)
		case models.SourceMeetings:
			if f.meetings == nil {
				continue
			}
			meetings, err := f.meetings.GetDateRange(start, end)
			if err != nil {
				return data, fmt.Errorf("fetching meetings: %w", err)
			}
			data.Meetings = meetingViews(meetings)
		case models.SourceProjects:
			if f.projects == nil {
				continue
			}
			projects, err := f.projects.GetActive()
			if err != nil {
				return data, fmt.Errorf("fetching projects: %w", err)
			}
			data.Projects = projectViews(projects)
		}
	}

	data.Summary = summarize(data)
	return data, nil
}

func (f *FieldManager) noteViews(notes []*models.Note) []models.NoteView {
	views := make([]models.NoteView, len(notes))
	for i, n := range notes {
		display := ""
		if f.tagSys != nil {
			display = f.tagSys.FormatDisplay(n.Tags)
		}
		views[i] = models.NoteView{
			Content:      n.Content,
			Tags:         n.Tags,
			DisplayTags:  display,
			MeetingTitle: n.MeetingTitle,
			ProjectName:  n.ProjectName,
			Source:       n.Source,
			CreatedAt:    n.CreatedAt,
		}
	}
	return views
}

func entryViews(entries []*models.TimeEntry) []models.TimeEntryView {
	views := make([]models.TimeEntryView, len(entries))
	for i, e := range entries {
		views[i] = models.TimeEntryView{
			Description:   e.Description,
			DurationHours: e.DurationHours,
			Category:      e.Category,
			EntryTime:     e.EntryTime,
			ProjectName:   e.ProjectName,
			Tags:          e.Tags,
		}
	}
	return views
}

// filterEntryViews applies the section tag filter to time entries. Include
// is OR across tags, exclude is AND-NOT, and exclude wins when both match.
func filterEntryViews(views []models.TimeEntryView, include, exclude []string) []models.TimeEntryView {
	if len(include) == 0 && len(exclude) == 0 {
		return views
	}
	var out []models.TimeEntryView
	for _, v := range views {
		if hasAny(v.Tags, exclude) {
			continue
		}
		if len(include) > 0 && !hasAny(v.Tags, include) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func hasAny(tagSet, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tagSet {
			if t == w {
				return true
			}
		}
	}
	return false
}

func meetingViews(meetings []*models.Meeting) []models.MeetingView {
	views := make([]models.MeetingView, len(meetings))
	for i, m := range meetings {
		views[i] = models.MeetingView{
			Title:     m.Title,
			StartTime: m.StartTime,
			EndTime:   m.EndTime,
			Attendees: m.Attendees,
		}
	}
	return views
}

func projectViews(projects []*models.Project) []models.ProjectView {
	views := make([]models.ProjectView, len(projects))
	for i, p := range projects {
		views[i] = models.ProjectView{
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
		}
	}
	return views
}

// summarize computes the per-section aggregate. TotalHours always equals the
// sum of CategoryHours values.
func summarize(data models.SectionData) models.SectionSummary {
	summary := models.SectionSummary{
		NoteCount:      len(data.Notes),
		TimeEntryCount: len(data.TimeEntries),
		MeetingCount:   len(data.Meetings),
		CategoryHours:  make(map[string]float64),
		TagCounts:      make(map[string]int),
	}

	for _, entry := range data.TimeEntries {
		summary.TotalHours += entry.DurationHours
		category := entry.Category
		if category == "" {
			category = "Other"
		}
		summary.CategoryHours[category] += entry.DurationHours
	}

	for _, note := range data.Notes {
		for _, tag := range note.Tags {
			summary.TagCounts[tag]++
		}
	}

	return summary
}

// FormatSectionOutput renders the fetched data as deterministic plain text.
// This is the grounding context handed to an AI model, so its exact shape is
// stable and covered by tests.
func (f *FieldManager) FormatSectionOutput(data models.SectionData) string {
	var lines []string

	if len(data.Notes) > 0 {
		lines = append(lines, "NOTES:")
		for _, note := range data.Notes {
			line := "  - " + note.Content
			if note.DisplayTags != "" {
				line += " " + note.DisplayTags
			}
			if note.MeetingTitle != "" {
				line += " (Meeting: " + note.MeetingTitle + ")"
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	if len(data.TimeEntries) > 0 {
		lines = append(lines, "TIME ENTRIES:")
		for _, entry := range data.TimeEntries {
			line := fmt.Sprintf("  - %s: %gh", entry.Description, entry.DurationHours)
			if entry.Category != "" {
				line += " [" + entry.Category + "]"
			}
			if entry.EntryTime != "" {
				line += " at " + entry.EntryTime
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "SUMMARY:")
	lines = append(lines, fmt.Sprintf("  Total hours: %.2fh", data.Summary.TotalHours))
	if len(data.Summary.CategoryHours) > 0 {
		lines = append(lines, "  Hours by category:")
		for _, category := range sortedKeys(data.Summary.CategoryHours) {
			lines = append(lines, fmt.Sprintf("    - %s: %.2fh", category, data.Summary.CategoryHours[category]))
		}
	}
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DateRangeForReportType resolves the inclusive query range for a report
// type. Single-day types return the reference date twice; weekly types
// anchor to the Monday of the reference date's week. Unrecognized types fall
// back to single-day.
func DateRangeForReportType(reportType string, reference time.Time) (time.Time, time.Time) {
	monday := weekMonday(reference)

	switch {
	case reportType == "weekly_client_thursday":
		return monday, monday.AddDate(0, 0, 3)
	case reportType == "weekly_client_friday":
		return monday, monday.AddDate(0, 0, 4)
	case strings.HasPrefix(reportType, "weekly"):
		// Monday through the reference date, capped at Friday when the
		// reference falls on a weekend.
		if wd := reference.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return monday, monday.AddDate(0, 0, 4)
		}
		return monday, reference
	default:
		return reference, reference
	}
}
