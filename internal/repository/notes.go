package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lockdwn20/workmain/internal/models"
)

// Notes is the notes repository.
type Notes struct {
	db *DB
}

// NewNotes creates a notes repository over an open database.
func NewNotes(db *DB) *Notes {
	return &Notes{db: db}
}

const noteColumns = `
	n.id, n.content, n.tags, n.source, n.project_id, n.meeting_id,
	n.created_at, n.created_date, m.title, p.name
`

const noteJoin = `
	FROM notes n
	LEFT JOIN meetings m ON m.id = n.meeting_id
	LEFT JOIN projects p ON p.id = n.project_id
`

// Create inserts a note. Tags are normalized (deduplicated, sorted) on write;
// content is expected to be clean text with hashtags already stripped.
func (r *Notes) Create(content string, tagList []string, projectID, meetingID *int64, source string) (*models.Note, error) {
	if source == "" {
		source = "ad-hoc"
	}
	now := time.Now()
	normalized := normalizeTagSet(tagList)

	res, err := r.db.conn.Exec(`
		INSERT INTO notes (content, tags, source, project_id, meeting_id, created_at, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		content, marshalStrings(normalized), source, projectID, meetingID,
		now.Format(timestampLayout), now.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return r.GetByID(id)
}

// GetByID returns a note, or nil when it does not exist.
func (r *Notes) GetByID(id int64) (*models.Note, error) {
	row := r.db.conn.QueryRow(`SELECT `+noteColumns+noteJoin+` WHERE n.id = ?`, id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return note, err
}

// GetByDate returns notes created on one date, oldest first, optionally tag
// filtered. Include is OR semantics, exclude is AND-NOT; exclude wins when a
// tag appears in both lists.
func (r *Notes) GetByDate(day time.Time, include, exclude []string) ([]*models.Note, error) {
	return r.GetDateRange(day, day, include, exclude)
}

// GetDateRange returns notes in an inclusive date range, oldest first,
// optionally tag filtered.
func (r *Notes) GetDateRange(start, end time.Time, include, exclude []string) ([]*models.Note, error) {
	rows, err := r.db.conn.Query(`
		SELECT `+noteColumns+noteJoin+`
		WHERE n.created_date >= ? AND n.created_date <= ?
		ORDER BY n.created_at`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, err
	}
	return filterNotesByTags(notes, include, exclude), nil
}

// Search runs a keyword search over note content, most relevant first.
// Relevance is the number of keyword occurrences, ties broken newest first.
func (r *Notes) Search(keyword string, limit int, start, end *time.Time) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + noteJoin + ` WHERE n.content LIKE ?`
	args := []interface{}{"%" + keyword + "%"}

	if start != nil {
		query += ` AND n.created_date >= ?`
		args = append(args, start.Format(dateLayout))
	}
	if end != nil {
		query += ` AND n.created_date <= ?`
		args = append(args, end.Format(dateLayout))
	}

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(keyword)
	sort.SliceStable(notes, func(i, j int) bool {
		ci := strings.Count(strings.ToLower(notes[i].Content), lower)
		cj := strings.Count(strings.ToLower(notes[j].Content), lower)
		if ci != cj {
			return ci > cj
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

// GetByMeeting returns notes linked to a meeting, oldest first. With
// expandRecurring set and the meeting part of a recurring series, notes from
// every instance of the series are returned.
func (r *Notes) GetByMeeting(meetingID int64, expandRecurring bool) ([]*models.Note, error) {
	ids := []int64{meetingID}

	if expandRecurring {
		var recurringID sql.NullString
		err := r.db.conn.QueryRow(
			`SELECT recurring_id FROM meetings WHERE id = ?`, meetingID,
		).Scan(&recurringID)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("resolving recurring series: %w", err)
		}
		if recurringID.Valid && recurringID.String != "" {
			rows, err := r.db.conn.Query(
				`SELECT id FROM meetings WHERE recurring_id = ?`, recurringID.String)
			if err != nil {
				return nil, fmt.Errorf("resolving recurring series: %w", err)
			}
			defer rows.Close()
			ids = ids[:0]
			for rows.Next() {
				var id int64
				if err := rows.Scan(&id); err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
			if err := rows.Err(); err != nil {
				return nil, err
			}
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.conn.Query(
		`SELECT `+noteColumns+noteJoin+` WHERE n.meeting_id IN (`+placeholders+`) ORDER BY n.created_at`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying meeting notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// GetByTag returns notes carrying a full tag name, oldest first, optionally
// date bounded.
func (r *Notes) GetByTag(fullName string, start, end *time.Time) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + noteJoin + ` WHERE 1=1`
	var args []interface{}

	if start != nil {
		query += ` AND n.created_date >= ?`
		args = append(args, start.Format(dateLayout))
	}
	if end != nil {
		query += ` AND n.created_date <= ?`
		args = append(args, end.Format(dateLayout))
	}
	query += ` ORDER BY n.created_at`

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes by tag: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, err
	}
	return filterNotesByTags(notes, []string{fullName}, nil), nil
}

// Update modifies the given fields of a note; nil fields keep their values.
// Tags are normalized on write. Returns nil when the note does not exist.
func (r *Notes) Update(id int64, content *string, tagList []string, projectID, meetingID *int64) (*models.Note, error) {
	existing, err := r.GetByID(id)
	if err != nil || existing == nil {
		return nil, err
	}

	if content != nil {
		existing.Content = *content
	}
	if tagList != nil {
		existing.Tags = normalizeTagSet(tagList)
	}
	if projectID != nil {
		existing.ProjectID = projectID
	}
	if meetingID != nil {
		existing.MeetingID = meetingID
	}

	_, err = r.db.conn.Exec(`
		UPDATE notes SET content = ?, tags = ?, project_id = ?, meeting_id = ?
		WHERE id = ?`,
		existing.Content, marshalStrings(existing.Tags),
		existing.ProjectID, existing.MeetingID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating note: %w", err)
	}
	return r.GetByID(id)
}

// Delete removes a note, reporting whether it existed.
func (r *Notes) Delete(id int64) (bool, error) {
	res, err := r.db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting note: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountByDate counts notes created on one date.
func (r *Notes) CountByDate(day time.Time) (int, error) {
	var count int
	err := r.db.conn.QueryRow(
		`SELECT COUNT(*) FROM notes WHERE created_date = ?`, day.Format(dateLayout),
	).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		note         models.Note
		rawTags      string
		createdAt    string
		createdDate  string
		projectID    sql.NullInt64
		meetingID    sql.NullInt64
		meetingTitle sql.NullString
		projectName  sql.NullString
	)
	err := row.Scan(
		&note.ID, &note.Content, &rawTags, &note.Source, &projectID, &meetingID,
		&createdAt, &createdDate, &meetingTitle, &projectName,
	)
	if err != nil {
		return nil, err
	}

	note.Tags = unmarshalStrings(rawTags)
	note.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	note.CreatedDate, _ = time.Parse(dateLayout, createdDate)
	if projectID.Valid {
		note.ProjectID = &projectID.Int64
	}
	if meetingID.Valid {
		note.MeetingID = &meetingID.Int64
	}
	note.MeetingTitle = meetingTitle.String
	note.ProjectName = projectName.String
	return &note, nil
}

func scanNotes(rows *sql.Rows) ([]*models.Note, error) {
	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// filterNotesByTags applies the section tag filter semantics in memory;
// SQLite has no array operators, and note volumes here are small.
func filterNotesByTags(notes []*models.Note, include, exclude []string) []*models.Note {
	if len(include) == 0 && len(exclude) == 0 {
		return notes
	}
	var out []*models.Note
	for _, note := range notes {
		if matchesTagFilter(note.Tags, include, exclude) {
			out = append(out, note)
		}
	}
	return out
}

func matchesTagFilter(tagList, include, exclude []string) bool {
	// Exclude wins over include.
	for _, ex := range exclude {
		for _, tag := range tagList {
			if tag == ex {
				return false
			}
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, in := range include {
		for _, tag := range tagList {
			if tag == in {
				return true
			}
		}
	}
	return false
}

func normalizeTagSet(tagList []string) []string {
	seen := make(map[string]struct{}, len(tagList))
	var out []string
	for _, tag := range tagList {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
