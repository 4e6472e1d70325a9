package renderer

import (
	"context"
	"strings"
	"testing"

	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/storage"
	"github.com/lockdwn20/workmain/internal/tags"
	"github.com/lockdwn20/workmain/internal/validation"
)

func testRenderer(t *testing.T, tmpl *models.Template, fields *FieldManager) *Renderer {
	t.Helper()

	store, err := storage.NewTemplateStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if tmpl != nil {
		if err := store.Save(tmpl); err != nil {
			t.Fatalf("saving template: %v", err)
		}
	}

	tagSys := tags.NewSystem(tags.DefaultConfig())
	validator := validation.New(validation.DefaultVocabulary(tagSys.ValidFullNames()))

	if fields == nil {
		fields = NewFieldManager(&fakeNotes{}, &fakeEntries{}, &fakeMeetings{}, &fakeProjects{}, tagSys)
	}

	return New(store, validator, fields, NewStyleAdapter(nil), nil, Options{
		UserFullName: "Jordan Smith",
	})
}

func TestRenderRequiredEmptySection(t *testing.T) {
	tmpl := &models.Template{
		Name:         "daily status",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		SubjectLine:  "Daily Report - {user_full_name} - {date_long}",
		Sections: []models.Section{
			{
				Name:        "accomplishments",
				Title:       "Accomplishments",
				Required:    true,
				DataSources: []string{"notes"},
				Format:      "bullets",
			},
		},
	}

	r := testRenderer(t, tmpl, nil)
	result, err := r.Render(context.Background(), RenderRequest{
		TemplateName: "daily status",
		ReportDate:   day("2026-03-04"),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if result.Sections[0].Content != "None at this time." {
		t.Errorf("required empty section content = %q, want the fallback literal", result.Sections[0].Content)
	}
	if result.SubjectLine != "Daily Report - Jordan Smith - March 04, 2026" {
		t.Errorf("SubjectLine = %q", result.SubjectLine)
	}
	if !strings.Contains(result.Output, "**Subject:** Daily Report - Jordan Smith - March 04, 2026") {
		t.Errorf("output missing substituted subject:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "#### Accomplishments\nNone at this time.") {
		t.Errorf("output missing section block:\n%s", result.Output)
	}
}

func TestRenderNonRequiredEmptySection(t *testing.T) {
	tmpl := &models.Template{
		Name:         "daily status",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		Sections: []models.Section{
			{
				Name:        "blockers",
				Title:       "Blockers",
				DataSources: []string{"notes"},
				Format:      "bullets",
			},
		},
	}

	r := testRenderer(t, tmpl, nil)
	result, err := r.Render(context.Background(), RenderRequest{
		TemplateName: "daily status",
		ReportDate:   day("2026-03-04"),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if result.Sections[0].Content != "" {
		t.Errorf("non-required empty section content = %q, want empty", result.Sections[0].Content)
	}
	// The heading still appears even when the content is empty.
	if !strings.Contains(result.Output, "#### Blockers") {
		t.Errorf("output missing heading for empty section:\n%s", result.Output)
	}
}

func TestRenderFormatsAndOrder(t *testing.T) {
	fields := testFieldManager()
	tmpl := &models.Template{
		Name:         "daily full",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		Sections: []models.Section{
			{
				Name:        "work",
				Title:       "Work",
				DataSources: []string{"notes", "time_entries"},
				Format:      "bullets",
			},
			{
				Name:        "hours",
				Title:       "Hours",
				DataSources: []string{"time_entries"},
				Format:      "time_summary",
			},
			{
				Name:        "priorities",
				Title:       "Priorities",
				DataSources: []string{"notes"},
				Format:      "numbered_list",
			},
		},
	}

	r := testRenderer(t, tmpl, fields)
	result, err := r.Render(context.Background(), RenderRequest{
		TemplateName: "daily full",
		ReportDate:   day("2026-03-04"),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	work := result.Sections[0].Content
	if !strings.Contains(work, "- Finished the rollout") || !strings.Contains(work, "- rollout work (2.5h)") {
		t.Errorf("bullets content = %q", work)
	}

	hours := result.Sections[1].Content
	if !strings.Contains(hours, "- development: 2.50h") || !strings.Contains(hours, "- **Total**: 3.25h") {
		t.Errorf("time summary content = %q", hours)
	}

	priorities := result.Sections[2].Content
	if !strings.HasPrefix(priorities, "1. ") {
		t.Errorf("numbered list content = %q", priorities)
	}

	// Sections appear in declared order.
	workIdx := strings.Index(result.Output, "#### Work")
	hoursIdx := strings.Index(result.Output, "#### Hours")
	prioIdx := strings.Index(result.Output, "#### Priorities")
	if !(workIdx < hoursIdx && hoursIdx < prioIdx) {
		t.Errorf("section order wrong in output:\n%s", result.Output)
	}
}

func TestRenderAbortsOnInvalidTemplate(t *testing.T) {
	tmpl := &models.Template{
		Name:         "broken",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		Sections: []models.Section{
			{Name: "a", Title: "A", DataSources: []string{"nonsense_source"}},
		},
	}

	r := testRenderer(t, tmpl, nil)
	if _, err := r.Render(context.Background(), RenderRequest{TemplateName: "broken"}); err == nil {
		t.Fatal("expected validation failure to abort the render")
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	r := testRenderer(t, nil, nil)
	if _, err := r.Render(context.Background(), RenderRequest{TemplateName: "absent"}); err == nil {
		t.Fatal("expected NOT_FOUND for a missing template")
	}
}

func TestPreview(t *testing.T) {
	tmpl := &models.Template{
		Name:         "daily status",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		Sections: []models.Section{
			{Name: "work", Title: "Work", Required: true, DataSources: []string{"notes"}, Format: "bullets"},
		},
	}

	r := testRenderer(t, tmpl, nil)
	out, err := r.Preview(context.Background(), "daily status", day("2026-03-04"))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(out, "#### Work") {
		t.Errorf("preview output = %q", out)
	}
}
