package models

import "time"

// Note is a tagged free-text capture. Tags hold canonical full names,
// deduplicated and sorted; the repository enforces that on write.
type Note struct {
	ID          int64
	Content     string
	Tags        []string
	Source      string
	ProjectID   *int64
	MeetingID   *int64
	CreatedAt   time.Time
	CreatedDate time.Time

	// Denormalized for display; populated by the repository when the link
	// exists.
	MeetingTitle string
	ProjectName  string
}

// TimeEntry is a logged unit of work.
type TimeEntry struct {
	ID            int64
	Description   string
	DurationHours float64
	EntryDate     time.Time
	EntryTime     string // 24-hour HH:MM, empty when not recorded
	Category      string
	Tags          []string
	ProjectID     *int64
	ProjectName   string
	ClockifyID    string
	SyncedAt      *time.Time
}

// Synced reports whether the entry has been pushed to the external tracker.
func (e *TimeEntry) Synced() bool {
	return e.ClockifyID != ""
}

// Meeting is a calendar event, either synced or ad hoc.
type Meeting struct {
	ID          int64
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	OutlookID   string
	RecurringID string
	IsRecurring bool
	Attendees   []string
}

// Project groups notes and time entries.
type Project struct {
	ID          int64
	Name        string
	Description string
	Status      string
}
