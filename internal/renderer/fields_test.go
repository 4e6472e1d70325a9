package renderer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/tags"
)

type fakeNotes struct {
	notes []*models.Note
}

func (f *fakeNotes) GetDateRange(start, end time.Time, include, exclude []string) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.notes {
		if hasAny(n.Tags, exclude) {
			continue
		}
		if len(include) > 0 && !hasAny(n.Tags, include) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

type fakeEntries struct {
	entries []*models.TimeEntry
}

func (f *fakeEntries) GetDateRange(start, end time.Time, category string) ([]*models.TimeEntry, error) {
	return f.entries, nil
}

type fakeMeetings struct {
	meetings []*models.Meeting
}

func (f *fakeMeetings) GetDateRange(start, end time.Time) ([]*models.Meeting, error) {
	return f.meetings, nil
}

type fakeProjects struct {
	projects []*models.Project
}

func (f *fakeProjects) GetActive() ([]*models.Project, error) {
	return f.projects, nil
}

func testFieldManager() *FieldManager {
	notes := &fakeNotes{notes: []*models.Note{
		{Content: "Finished the rollout", Tags: []string{"client-report"}},
		{Content: "Cleaned up internal docs", Tags: []string{"internal-only"}},
	}}
	entries := &fakeEntries{entries: []*models.TimeEntry{
		{Description: "rollout work", DurationHours: 2.5, Category: "development"},
		{Description: "standup", DurationHours: 0.5, Category: "meetings", EntryTime: "09:30"},
		{Description: "inbox", DurationHours: 0.25},
	}}
	return NewFieldManager(notes, entries, &fakeMeetings{}, &fakeProjects{}, tags.NewSystem(tags.DefaultConfig()))
}

func TestGetSectionDataSummaryInvariant(t *testing.T) {
	fm := testFieldManager()
	section := &models.Section{
		Name:        "accomplishments",
		DataSources: []string{"notes", "time_entries"},
	}

	data, err := fm.GetSectionData(section, day("2026-03-02"), day("2026-03-02"))
	if err != nil {
		t.Fatalf("GetSectionData: %v", err)
	}

	if data.Summary.NoteCount != 2 || data.Summary.TimeEntryCount != 3 {
		t.Errorf("counts = %d notes, %d entries", data.Summary.NoteCount, data.Summary.TimeEntryCount)
	}

	var categorySum float64
	for _, hours := range data.Summary.CategoryHours {
		categorySum += hours
	}
	if math.Abs(categorySum-data.Summary.TotalHours) > 1e-9 {
		t.Errorf("TotalHours %v != category sum %v", data.Summary.TotalHours, categorySum)
	}
	if data.Summary.CategoryHours["Other"] != 0.25 {
		t.Errorf("uncategorized hours = %v, want 0.25 under Other", data.Summary.CategoryHours["Other"])
	}
	if data.Summary.TagCounts["client-report"] != 1 {
		t.Errorf("TagCounts = %v", data.Summary.TagCounts)
	}
}

func TestGetSectionDataTagFilter(t *testing.T) {
	fm := testFieldManager()
	section := &models.Section{
		Name:        "client_work",
		DataSources: []string{"notes"},
		TagFilter:   models.TagFilter{Include: []string{"client-report"}},
	}

	data, err := fm.GetSectionData(section, day("2026-03-02"), day("2026-03-02"))
	if err != nil {
		t.Fatalf("GetSectionData: %v", err)
	}
	if len(data.Notes) != 1 || data.Notes[0].Content != "Finished the rollout" {
		t.Errorf("filtered notes = %+v", data.Notes)
	}
}

func TestFormatSectionOutput(t *testing.T) {
	fm := testFieldManager()
	section := &models.Section{
		Name:        "all",
		DataSources: []string{"notes", "time_entries"},
	}
	data, err := fm.GetSectionData(section, day("2026-03-02"), day("2026-03-02"))
	if err != nil {
		t.Fatal(err)
	}

	out := fm.FormatSectionOutput(data)
	for _, want := range []string{
		"NOTES:",
		"  - Finished the rollout [client-report]",
		"TIME ENTRIES:",
		"  - rollout work: 2.5h [development]",
		"  - standup: 0.5h [meetings] at 09:30",
		"SUMMARY:",
		"  Total hours: 3.25h",
		"    - development: 2.50h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDateRangeForReportType(t *testing.T) {
	// 2026-03-04 is a Wednesday; the week's Monday is 2026-03-02.
	wednesday := day("2026-03-04")
	saturday := day("2026-03-07")

	cases := []struct {
		reportType string
		reference  time.Time
		wantStart  string
		wantEnd    string
	}{
		{"daily_internal", wednesday, "2026-03-04", "2026-03-04"},
		{"weekly_client_thursday", wednesday, "2026-03-02", "2026-03-05"},
		{"weekly_client_friday", wednesday, "2026-03-02", "2026-03-06"},
		{"weekly_status", wednesday, "2026-03-02", "2026-03-04"},
		{"weekly_status", saturday, "2026-03-02", "2026-03-06"},
		{"weekly_status", day("2026-03-08"), "2026-03-02", "2026-03-06"},
		{"something_else", wednesday, "2026-03-04", "2026-03-04"},
	}
	for _, tc := range cases {
		start, end := DateRangeForReportType(tc.reportType, tc.reference)
		if got := start.Format("2006-01-02"); got != tc.wantStart {
			t.Errorf("%s on %s: start = %s, want %s", tc.reportType, tc.reference.Format("2006-01-02"), got, tc.wantStart)
		}
		if got := end.Format("2006-01-02"); got != tc.wantEnd {
			t.Errorf("%s on %s: end = %s, want %s", tc.reportType, tc.reference.Format("2006-01-02"), got, tc.wantEnd)
		}
	}
}
