package models

import "time"

// NoteView is the shape of a note handed to formatting and prompts. It
// decouples the renderer from repository types.
type NoteView struct {
	Content      string
	Tags         []string
	DisplayTags  string
	MeetingTitle string
	ProjectName  string
	Source       string
	CreatedAt    time.Time
}

// TimeEntryView is the renderer-facing shape of a time entry.
type TimeEntryView struct {
	Description   string
	DurationHours float64
	Category      string
	EntryTime     string
	ProjectName   string
	Tags          []string
}

// MeetingView is the renderer-facing shape of a meeting.
type MeetingView struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Attendees []string
}

// ProjectView is the renderer-facing shape of a project.
type ProjectView struct {
	Name        string
	Description string
	Status      string
}

// SectionSummary aggregates the data fetched for one section. TotalHours
// always equals the sum of CategoryHours values.
type SectionSummary struct {
	NoteCount      int
	TimeEntryCount int
	MeetingCount   int
	TotalHours     float64
	CategoryHours  map[string]float64
	TagCounts      map[string]int
}

// SectionData is everything fetched for one section render.
type SectionData struct {
	Notes       []NoteView
	TimeEntries []TimeEntryView
	Meetings    []MeetingView
	Projects    []ProjectView
	Summary     SectionSummary
}

// RenderedSection is one section's render output.
type RenderedSection struct {
	Name          string
	Title         string
	Content       string
	Data          SectionData
	FormattedData string
}

// DateRange is an inclusive date interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RenderResult is the outcome of a full template render. It is ephemeral;
// the engine never persists it.
type RenderResult struct {
	ID           string
	TemplateName string
	TemplateType string
	SubjectLine  string
	Sections     []RenderedSection
	Output       string
	GeneratedAt  time.Time
	ReportDate   time.Time
	DateRange    DateRange
	AIUsed       bool
	Version      string
}
