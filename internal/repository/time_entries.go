package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lockdwn20/workmain/internal/models"
)

// TimeEntries is the time-entry repository.
type TimeEntries struct {
	db *DB
}

// NewTimeEntries creates a time-entry repository over an open database.
func NewTimeEntries(db *DB) *TimeEntries {
	return &TimeEntries{db: db}
}

const entryColumns = `
	e.id, e.description, e.duration_hours, e.entry_date, e.entry_time,
	e.category, e.tags, e.project_id, p.name, e.clockify_id, e.synced_at
`

const entryJoin = `
	FROM time_entries e
	LEFT JOIN projects p ON p.id = e.project_id
`

// Create inserts a time entry. EntryTime is 24-hour HH:MM or empty; tags are
// normalized on write.
func (r *TimeEntries) Create(description string, durationHours float64, entryDate time.Time, entryTime, category string, projectID *int64, tagList []string) (*models.TimeEntry, error) {
	res, err := r.db.conn.Exec(`
		INSERT INTO time_entries (description, duration_hours, entry_date, entry_time, category, tags, project_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		description, durationHours, entryDate.Format(dateLayout),
		nullIfEmpty(entryTime), nullIfEmpty(category),
		marshalStrings(normalizeTagSet(tagList)), projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating time entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating time entry: %w", err)
	}
	return r.GetByID(id)
}

// GetByID returns a time entry, or nil when it does not exist.
func (r *TimeEntries) GetByID(id int64) (*models.TimeEntry, error) {
	row := r.db.conn.QueryRow(`SELECT `+entryColumns+entryJoin+` WHERE e.id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// GetByDate returns entries for one date ordered by time of day, optionally
// category filtered.
func (r *TimeEntries) GetByDate(day time.Time, category string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + entryJoin + ` WHERE e.entry_date = ?`
	args := []interface{}{day.Format(dateLayout)}
	if category != "" {
		query += ` AND e.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY e.entry_time`

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying time entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetDateRange returns entries in an inclusive date range ordered by date
// then time, optionally category filtered.
func (r *TimeEntries) GetDateRange(start, end time.Time, category string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + entryJoin + ` WHERE e.entry_date >= ? AND e.entry_date <= ?`
	args := []interface{}{start.Format(dateLayout), end.Format(dateLayout)}
	if category != "" {
		query += ` AND e.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY e.entry_date, e.entry_time`

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying time entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// TotalHoursByDate sums hours for one date, optionally category filtered.
func (r *TimeEntries) TotalHoursByDate(day time.Time, category string) (float64, error) {
	return r.TotalHoursByRange(day, day, category)
}

// TotalHoursByRange sums hours over an inclusive date range.
func (r *TimeEntries) TotalHoursByRange(start, end time.Time, category string) (float64, error) {
	query := `SELECT COALESCE(SUM(duration_hours), 0) FROM time_entries WHERE entry_date >= ? AND entry_date <= ?`
	args := []interface{}{start.Format(dateLayout), end.Format(dateLayout)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	var total float64
	err := r.db.conn.QueryRow(query, args...).Scan(&total)
	return total, err
}

// BreakdownByCategory groups hours by category over an inclusive date range.
// Entries without a category fall under "Uncategorized".
func (r *TimeEntries) BreakdownByCategory(start, end time.Time) (map[string]float64, error) {
	rows, err := r.db.conn.Query(`
		SELECT COALESCE(category, 'Uncategorized'), SUM(duration_hours)
		FROM time_entries
		WHERE entry_date >= ? AND entry_date <= ?
		GROUP BY COALESCE(category, 'Uncategorized')`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]float64)
	for rows.Next() {
		var category string
		var hours float64
		if err := rows.Scan(&category, &hours); err != nil {
			return nil, err
		}
		breakdown[category] = hours
	}
	return breakdown, rows.Err()
}

// BreakdownByDate groups hours by date over an inclusive date range.
func (r *TimeEntries) BreakdownByDate(start, end time.Time, category string) (map[string]float64, error) {
	query := `
		SELECT entry_date, SUM(duration_hours)
		FROM time_entries
		WHERE entry_date >= ? AND entry_date <= ?`
	args := []interface{}{start.Format(dateLayout), end.Format(dateLayout)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` GROUP BY entry_date`

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying date breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]float64)
	for rows.Next() {
		var day string
		var hours float64
		if err := rows.Scan(&day, &hours); err != nil {
			return nil, err
		}
		breakdown[day] = hours
	}
	return breakdown, rows.Err()
}

// Update modifies the given fields of an entry; nil fields keep their
// values. Returns nil when the entry does not exist.
func (r *TimeEntries) Update(id int64, description *string, durationHours *float64, entryTime, category *string, projectID *int64, tagList []string) (*models.TimeEntry, error) {
	existing, err := r.GetByID(id)
	if err != nil || existing == nil {
		return nil, err
	}

	if description != nil {
		existing.Description = *description
	}
	if durationHours != nil {
		existing.DurationHours = *durationHours
	}
	if entryTime != nil {
		existing.EntryTime = *entryTime
	}
	if category != nil {
		existing.Category = *category
	}
	if projectID != nil {
		existing.ProjectID = projectID
	}
	if tagList != nil {
		existing.Tags = normalizeTagSet(tagList)
	}

	_, err = r.db.conn.Exec(`
		UPDATE time_entries
		SET description = ?, duration_hours = ?, entry_time = ?, category = ?, project_id = ?, tags = ?
		WHERE id = ?`,
		existing.Description, existing.DurationHours,
		nullIfEmpty(existing.EntryTime), nullIfEmpty(existing.Category),
		existing.ProjectID, marshalStrings(existing.Tags), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating time entry: %w", err)
	}
	return r.GetByID(id)
}

// Delete removes a time entry, reporting whether it existed.
func (r *TimeEntries) Delete(id int64) (bool, error) {
	res, err := r.db.conn.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting time entry: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetUnsynced returns entries not yet pushed to the external tracker.
func (r *TimeEntries) GetUnsynced() ([]*models.TimeEntry, error) {
	rows, err := r.db.conn.Query(`
		SELECT ` + entryColumns + entryJoin + `
		WHERE e.clockify_id IS NULL
		ORDER BY e.entry_date, e.entry_time`)
	if err != nil {
		return nil, fmt.Errorf("querying unsynced entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// MarkSynced records the external tracker id on an entry.
func (r *TimeEntries) MarkSynced(id int64, clockifyID string) (*models.TimeEntry, error) {
	_, err := r.db.conn.Exec(`
		UPDATE time_entries SET clockify_id = ?, synced_at = ? WHERE id = ?`,
		clockifyID, time.Now().Format(timestampLayout), id,
	)
	if err != nil {
		return nil, fmt.Errorf("marking entry synced: %w", err)
	}
	return r.GetByID(id)
}

// GetRecent returns the most recent entries, newest first.
func (r *TimeEntries) GetRecent(limit int) ([]*models.TimeEntry, error) {
	rows, err := r.db.conn.Query(`
		SELECT `+entryColumns+entryJoin+`
		ORDER BY e.entry_date DESC, e.entry_time DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntry(row rowScanner) (*models.TimeEntry, error) {
	var (
		entry       models.TimeEntry
		entryDate   string
		entryTime   sql.NullString
		category    sql.NullString
		rawTags     string
		projectID   sql.NullInt64
		projectName sql.NullString
		clockifyID  sql.NullString
		syncedAt    sql.NullString
	)
	err := row.Scan(
		&entry.ID, &entry.Description, &entry.DurationHours, &entryDate, &entryTime,
		&category, &rawTags, &projectID, &projectName, &clockifyID, &syncedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.EntryDate, _ = time.Parse(dateLayout, entryDate)
	entry.EntryTime = entryTime.String
	entry.Category = category.String
	entry.Tags = unmarshalStrings(rawTags)
	if projectID.Valid {
		entry.ProjectID = &projectID.Int64
	}
	entry.ProjectName = projectName.String
	entry.ClockifyID = clockifyID.String
	if syncedAt.Valid {
		if ts, err := time.Parse(timestampLayout, syncedAt.String); err == nil {
			entry.SyncedAt = &ts
		}
	}
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
