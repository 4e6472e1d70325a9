package repository

import (
	"database/sql"
	"fmt"

	"github.com/lockdwn20/workmain/internal/models"
)

// Projects is the projects repository.
type Projects struct {
	db *DB
}

// NewProjects creates a projects repository over an open database.
func NewProjects(db *DB) *Projects {
	return &Projects{db: db}
}

// Create inserts a project with status "active".
func (r *Projects) Create(name, description string) (*models.Project, error) {
	res, err := r.db.conn.Exec(`
		INSERT INTO projects (name, description, status) VALUES (?, ?, 'active')`,
		name, description)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return r.GetByID(id)
}

// GetByID returns a project, or nil when it does not exist.
func (r *Projects) GetByID(id int64) (*models.Project, error) {
	row := r.db.conn.QueryRow(`SELECT id, name, description, status FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return project, err
}

// GetByName returns the project with the given name (case-insensitive), or
// nil when none matches.
func (r *Projects) GetByName(name string) (*models.Project, error) {
	row := r.db.conn.QueryRow(`SELECT id, name, description, status FROM projects WHERE LOWER(name) = LOWER(?)`, name)
	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return project, err
}

// GetActive returns active projects sorted by name.
func (r *Projects) GetActive() ([]*models.Project, error) {
	return r.list(`SELECT id, name, description, status FROM projects WHERE status = 'active' ORDER BY name`)
}

// GetAll returns every project sorted by name.
func (r *Projects) GetAll() ([]*models.Project, error) {
	return r.list(`SELECT id, name, description, status FROM projects ORDER BY name`)
}

// Update modifies a project; nil fields keep their current value.
func (r *Projects) Update(id int64, name, description, status *string) (*models.Project, error) {
	existing, err := r.GetByID(id)
	if err != nil || existing == nil {
		return nil, err
	}
	if name != nil {
		existing.Name = *name
	}
	if description != nil {
		existing.Description = *description
	}
	if status != nil {
		existing.Status = *status
	}

	_, err = r.db.conn.Exec(`UPDATE projects SET name = ?, description = ?, status = ? WHERE id = ?`,
		existing.Name, existing.Description, existing.Status, id)
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return existing, nil
}

// Archive marks a project inactive without removing its history.
func (r *Projects) Archive(id int64) (*models.Project, error) {
	status := "archived"
	return r.Update(id, nil, nil, &status)
}

// Delete removes a project and unlinks its notes and time entries.
func (r *Projects) Delete(id int64) (bool, error) {
	existing, err := r.GetByID(id)
	if err != nil || existing == nil {
		return false, err
	}

	if _, err := r.db.conn.Exec(`UPDATE notes SET project_id = NULL WHERE project_id = ?`, id); err != nil {
		return false, fmt.Errorf("unlinking project notes: %w", err)
	}
	if _, err := r.db.conn.Exec(`UPDATE time_entries SET project_id = NULL WHERE project_id = ?`, id); err != nil {
		return false, fmt.Errorf("unlinking project entries: %w", err)
	}
	if _, err := r.db.conn.Exec(`DELETE FROM projects WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("deleting project: %w", err)
	}
	return true, nil
}

func (r *Projects) list(query string) ([]*models.Project, error) {
	rows, err := r.db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project     models.Project
		description sql.NullString
	)
	if err := row.Scan(&project.ID, &project.Name, &description, &project.Status); err != nil {
		return nil, err
	}
	project.Description = description.String
	return &project, nil
}
