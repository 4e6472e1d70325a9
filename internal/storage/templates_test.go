package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
)

func testStore(t *testing.T) *TemplateStore {
	t.Helper()
	store, err := NewTemplateStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func sampleTemplate() *models.Template {
	return &models.Template{
		Name:         "Daily Status",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		SubjectLine:  "Daily Report - {user_full_name}",
		Sections: []models.Section{
			{Name: "work", Title: "Work", Required: true, DataSources: []string{"notes"}, Format: "bullets"},
		},
	}
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"Daily Status":         "daily_status",
		"weekly client friday": "weekly_client_friday",
		"UPPER":                "upper",
	}
	for in, want := range cases {
		if got := SafeName(in); got != want {
			t.Errorf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := testStore(t)
	if err := store.Save(sampleTemplate()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Load works via the original name and the safe name.
	for _, name := range []string{"Daily Status", "daily_status"} {
		tmpl, err := store.Load(name, false)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if tmpl.Name != "Daily Status" || len(tmpl.Sections) != 1 {
			t.Errorf("Load(%q) = %+v", name, tmpl)
		}
	}
}

func TestLoadMissingIsNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.Load("absent", false)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("Load(absent) error = %v, want NOT_FOUND", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	store := testStore(t)

	writeRaw := func(name, content string) {
		t.Helper()
		path := filepath.Join(store.Dir(), name+".json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	writeRaw("bad_json", "{not json")
	_, err := store.Load("bad_json", false)
	if !apperrors.HasCode(err, apperrors.CodeMalformed) {
		t.Errorf("invalid JSON error = %v, want MALFORMED", err)
	}

	// Missing required fields are all listed, not just the first.
	writeRaw("bare", `{"description": "no required fields"}`)
	_, err = store.Load("bare", false)
	if !apperrors.HasCode(err, apperrors.CodeMalformed) {
		t.Fatalf("missing fields error = %v, want MALFORMED", err)
	}
	for _, field := range []string{"name", "sections", "output_format"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error does not name missing field %q: %v", field, err)
		}
	}
}

func TestCacheAndReload(t *testing.T) {
	store := testStore(t)
	if err := store.Save(sampleTemplate()); err != nil {
		t.Fatal(err)
	}
	first, err := store.Load("daily_status", false)
	if err != nil {
		t.Fatal(err)
	}

	// Rewrite the file behind the cache.
	path := filepath.Join(store.Dir(), "daily_status.json")
	changed := strings.Replace(`{
  "name": "Daily Status",
  "description": "changed on disk",
  "output_format": "markdown",
  "sections": [{"name": "work", "title": "Work"}]
}`, "\r", "", -1)
	if err := os.WriteFile(path, []byte(changed), 0o644); err != nil {
		t.Fatal(err)
	}

	cached, err := store.Load("daily_status", false)
	if err != nil {
		t.Fatal(err)
	}
	if cached.Description != first.Description {
		t.Error("cached load picked up on-disk change without reload")
	}

	reloaded, err := store.Load("daily_status", true)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Description != "changed on disk" {
		t.Errorf("reload did not bypass cache: %q", reloaded.Description)
	}
}

func TestList(t *testing.T) {
	store := testStore(t)
	for _, name := range []string{"zeta", "alpha", "Middle One"} {
		tmpl := sampleTemplate()
		tmpl.Name = name
		if err := store.Save(tmpl); err != nil {
			t.Fatal(err)
		}
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha", "middle_one", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLoadAllContinuesPastFailures(t *testing.T) {
	store := testStore(t)
	if err := store.Save(sampleTemplate()); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(store.Dir(), "broken.json")
	if err := os.WriteFile(bad, []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	templates, failures := store.LoadAll(true)
	if len(templates) != 1 {
		t.Errorf("LoadAll templates = %d, want 1", len(templates))
	}
	if _, ok := failures["broken"]; !ok {
		t.Errorf("LoadAll failures = %v, want entry for broken", failures)
	}
}

func TestAddSection(t *testing.T) {
	store := testStore(t)
	if err := store.Save(sampleTemplate()); err != nil {
		t.Fatal(err)
	}

	err := store.AddSection("daily_status", models.Section{Name: "blockers", Title: "Blockers"})
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	tmpl, err := store.Load("daily_status", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(tmpl.Sections) != 2 || tmpl.Sections[1].Name != "blockers" {
		t.Errorf("sections = %+v", tmpl.Sections)
	}

	// Duplicate names are rejected.
	err = store.AddSection("daily_status", models.Section{Name: "work", Title: "Again"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("duplicate section error = %v, want INVALID_INPUT", err)
	}
}

func TestCachedTemplateIsImmutable(t *testing.T) {
	store := testStore(t)
	if err := store.Save(sampleTemplate()); err != nil {
		t.Fatal(err)
	}

	first, err := store.Load("daily_status", false)
	if err != nil {
		t.Fatal(err)
	}
	clone := first.Clone()
	clone.Sections[0].Title = "Mutated"

	again, err := store.Load("daily_status", false)
	if err != nil {
		t.Fatal(err)
	}
	if again.Sections[0].Title != "Work" {
		t.Error("mutating a clone changed the cached template")
	}
}
