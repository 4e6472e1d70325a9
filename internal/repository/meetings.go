package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/lockdwn20/workmain/internal/models"
)

// Meetings is the meetings repository.
type Meetings struct {
	db *DB
}

// NewMeetings creates a meetings repository over an open database.
func NewMeetings(db *DB) *Meetings {
	return &Meetings{db: db}
}

// MeetingMatch pairs a meeting with a similarity score in [0,1].
type MeetingMatch struct {
	Meeting *models.Meeting
	Score   float64
}

const meetingColumns = `
	id, title, start_time, end_time, outlook_id, recurring_id, is_recurring, attendees
`

// Create inserts a meeting. A missing end time defaults to one hour after
// the start.
func (r *Meetings) Create(title string, start time.Time, end *time.Time, outlookID, recurringID string, attendees []string, isRecurring bool) (*models.Meeting, error) {
	endTime := start.Add(time.Hour)
	if end != nil {
		endTime = *end
	}

	res, err := r.db.conn.Exec(`
		INSERT INTO meetings (title, start_time, end_time, outlook_id, recurring_id, is_recurring, attendees)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, start.Format(timestampLayout), endTime.Format(timestampLayout),
		nullIfEmpty(outlookID), nullIfEmpty(recurringID), isRecurring,
		marshalStrings(attendees),
	)
	if err != nil {
		return nil, fmt.Errorf("creating meeting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating meeting: %w", err)
	}
	return r.GetByID(id)
}

// GetByID returns a meeting, or nil when it does not exist.
func (r *Meetings) GetByID(id int64) (*models.Meeting, error) {
	row := r.db.conn.QueryRow(`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	meeting, err := scanMeeting(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return meeting, err
}

// GetByTitle returns the most recent meeting with the given title, exact or
// case-insensitive, or nil when none matches.
func (r *Meetings) GetByTitle(title string, exact bool) (*models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE title = ? ORDER BY start_time DESC LIMIT 1`
	if !exact {
		query = `SELECT ` + meetingColumns + ` FROM meetings WHERE LOWER(title) = LOWER(?) ORDER BY start_time DESC LIMIT 1`
	}
	row := r.db.conn.QueryRow(query, title)
	meeting, err := scanMeeting(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return meeting, err
}

// SearchByTitle fuzzy-searches meeting titles, best matches first.
func (r *Meetings) SearchByTitle(term string, limit int) ([]*models.Meeting, error) {
	meetings, err := r.GetAll(0)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(meetings))
	for i, m := range meetings {
		titles[i] = m.Title
	}

	matches := fuzzy.Find(term, titles)
	var out []*models.Meeting
	for _, match := range matches {
		out = append(out, meetings[match.Index])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// FuzzyMatch returns meetings whose titles are similar to the given title,
// scored by a normalized longest-common-subsequence ratio, highest first.
// Only matches at or above the threshold are returned.
func (r *Meetings) FuzzyMatch(title string, threshold float64) ([]MeetingMatch, error) {
	meetings, err := r.GetAll(0)
	if err != nil {
		return nil, err
	}

	var matches []MeetingMatch
	for _, meeting := range meetings {
		score := similarityRatio(strings.ToLower(title), strings.ToLower(meeting.Title))
		if score >= threshold {
			matches = append(matches, MeetingMatch{Meeting: meeting, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// GetByDate returns meetings starting on one date, earliest first.
func (r *Meetings) GetByDate(day time.Time) ([]*models.Meeting, error) {
	return r.GetDateRange(day, day)
}

// GetDateRange returns meetings starting within an inclusive date range,
// earliest first.
func (r *Meetings) GetDateRange(start, end time.Time) ([]*models.Meeting, error) {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	rows, err := r.db.conn.Query(`
		SELECT `+meetingColumns+` FROM meetings
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time`,
		dayStart.Format(timestampLayout), dayEnd.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer rows.Close()
	return scanMeetings(rows)
}

// GetRecurringSeries returns every meeting in a recurring series, earliest
// first.
func (r *Meetings) GetRecurringSeries(recurringID string) ([]*models.Meeting, error) {
	rows, err := r.db.conn.Query(`
		SELECT `+meetingColumns+` FROM meetings
		WHERE recurring_id = ?
		ORDER BY start_time`, recurringID)
	if err != nil {
		return nil, fmt.Errorf("querying recurring series: %w", err)
	}
	defer rows.Close()
	return scanMeetings(rows)
}

// GetAll returns meetings newest first, optionally limited.
func (r *Meetings) GetAll(limit int) ([]*models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings ORDER BY start_time DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer rows.Close()
	return scanMeetings(rows)
}

// Rename updates a meeting title.
func (r *Meetings) Rename(id int64, newTitle string) (*models.Meeting, error) {
	_, err := r.db.conn.Exec(`UPDATE meetings SET title = ? WHERE id = ?`, newTitle, id)
	if err != nil {
		return nil, fmt.Errorf("renaming meeting: %w", err)
	}
	return r.GetByID(id)
}

// Merge moves every note from one meeting onto another.
func (r *Meetings) Merge(fromID, toID int64) (bool, error) {
	from, err := r.GetByID(fromID)
	if err != nil || from == nil {
		return false, err
	}
	to, err := r.GetByID(toID)
	if err != nil || to == nil {
		return false, err
	}

	_, err = r.db.conn.Exec(`UPDATE notes SET meeting_id = ? WHERE meeting_id = ?`, toID, fromID)
	if err != nil {
		return false, fmt.Errorf("merging meetings: %w", err)
	}
	return true, nil
}

// Delete removes a meeting. Linked notes are unlinked unless deleteNotes is
// set.
func (r *Meetings) Delete(id int64, deleteNotes bool) (bool, error) {
	existing, err := r.GetByID(id)
	if err != nil || existing == nil {
		return false, err
	}

	if deleteNotes {
		if _, err := r.db.conn.Exec(`DELETE FROM notes WHERE meeting_id = ?`, id); err != nil {
			return false, fmt.Errorf("deleting meeting notes: %w", err)
		}
	} else {
		if _, err := r.db.conn.Exec(`UPDATE notes SET meeting_id = NULL WHERE meeting_id = ?`, id); err != nil {
			return false, fmt.Errorf("unlinking meeting notes: %w", err)
		}
	}

	if _, err := r.db.conn.Exec(`DELETE FROM meetings WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("deleting meeting: %w", err)
	}
	return true, nil
}

// FindOrCreate returns the existing meeting with the given title
// (case-insensitive) or creates an ad-hoc one starting at start (now when
// zero).
func (r *Meetings) FindOrCreate(title string, start time.Time) (*models.Meeting, error) {
	existing, err := r.GetByTitle(title, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if start.IsZero() {
		start = time.Now()
	}
	return r.Create(title, start, nil, "", "", nil, false)
}

func scanMeeting(row rowScanner) (*models.Meeting, error) {
	var (
		meeting     models.Meeting
		startTime   string
		endTime     string
		outlookID   sql.NullString
		recurringID sql.NullString
		attendees   string
	)
	err := row.Scan(
		&meeting.ID, &meeting.Title, &startTime, &endTime,
		&outlookID, &recurringID, &meeting.IsRecurring, &attendees,
	)
	if err != nil {
		return nil, err
	}

	meeting.StartTime, _ = time.Parse(timestampLayout, startTime)
	meeting.EndTime, _ = time.Parse(timestampLayout, endTime)
	meeting.OutlookID = outlookID.String
	meeting.RecurringID = recurringID.String
	meeting.Attendees = unmarshalStrings(attendees)
	return &meeting, nil
}

func scanMeetings(rows *sql.Rows) ([]*models.Meeting, error) {
	var meetings []*models.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

// similarityRatio computes 2*LCS(a,b) / (len(a)+len(b)), a normalized
// similarity in [0,1]. Identical strings score 1, disjoint strings 0.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}
