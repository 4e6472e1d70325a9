// Package storage handles the file system side of the template engine: the
// JSON template store and the writing-style configuration. One JSON document
// per template, keyed by a filesystem-safe name.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
)

// requiredTemplateFields must be present in every template document. Checked
// against the raw JSON so a zero-valued struct field is distinguishable from
// an absent one.
var requiredTemplateFields = []string{"name", "sections", "output_format"}

// TemplateStore loads and saves report templates. Loaded templates are cached
// by name; callers pass reload=true to bypass the cache. The cache is
// read-mostly and safe for concurrent renders; cached templates are treated
// as immutable.
type TemplateStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*models.Template
}

// NewTemplateStore creates a store over a directory, creating it if needed.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "creating templates directory %s", dir)
	}
	return &TemplateStore{
		dir:   dir,
		cache: make(map[string]*models.Template),
	}, nil
}

// Dir returns the store's directory.
func (s *TemplateStore) Dir() string {
	return s.dir
}

// SafeName converts a template name to its storage key: lower-case, spaces
// replaced with underscores.
func SafeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Load returns the named template, from cache unless reload is set.
// A missing file is a NOT_FOUND error; invalid JSON or missing required
// top-level fields are MALFORMED, listing every missing field.
func (s *TemplateStore) Load(name string, reload bool) (*models.Template, error) {
	key := SafeName(name)

	if !reload {
		s.mu.RLock()
		cached, ok := s.cache[key]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	path := filepath.Join(s.dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("template", name)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "reading template %s", path)
	}

	tmpl, err := parseTemplate(name, data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = tmpl
	s.mu.Unlock()

	return tmpl, nil
}

func parseTemplate(name string, data []byte) (*models.Template, error) {
	// Probe raw keys first: required-field absence must be reported even when
	// the struct would decode cleanly with zero values.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformed, "invalid JSON in template '%s'", name)
	}

	var missing []string
	for _, field := range requiredTemplateFields {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Malformed(
			"template '%s' missing required fields: %s", name, strings.Join(missing, ", "))
	}

	var tmpl models.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformed, "invalid template '%s'", name)
	}
	return &tmpl, nil
}

// LoadAll loads every template in the directory. Failures do not stop the
// batch; they are returned per name so list-with-errors flows can continue
// past one bad document.
func (s *TemplateStore) LoadAll(reload bool) (map[string]*models.Template, map[string]error) {
	templates := make(map[string]*models.Template)
	failures := make(map[string]error)

	names, err := s.List()
	if err != nil {
		failures[""] = err
		return templates, failures
	}

	for _, name := range names {
		tmpl, err := s.Load(name, reload)
		if err != nil {
			failures[name] = err
			continue
		}
		templates[name] = tmpl
	}
	return templates, failures
}

// List enumerates template names, alphabetically.
func (s *TemplateStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "listing templates in %s", s.dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Save persists a template under its filesystem-safe name and refreshes the
// cache entry. Validation is the caller's choice; interactive creation flows
// may save despite warnings.
func (s *TemplateStore) Save(tmpl *models.Template) error {
	if tmpl.Name == "" {
		return apperrors.InvalidInput("template name must not be empty")
	}

	key := SafeName(tmpl.Name)
	path := filepath.Join(s.dir, key+".json")

	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "serializing template '%s'", tmpl.Name)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "writing template %s", path)
	}

	s.mu.Lock()
	s.cache[key] = tmpl.Clone()
	s.mu.Unlock()

	return nil
}

// AddSection appends a section to a stored template and saves it back.
// Duplicate section names are rejected before touching the file.
func (s *TemplateStore) AddSection(name string, section models.Section) error {
	tmpl, err := s.Load(name, true)
	if err != nil {
		return err
	}
	if tmpl.SectionByName(section.Name) != nil {
		return apperrors.InvalidInput(
			"template '%s' already has a section named '%s'", name, section.Name)
	}

	updated := tmpl.Clone()
	updated.Sections = append(updated.Sections, section)
	return s.Save(updated)
}
