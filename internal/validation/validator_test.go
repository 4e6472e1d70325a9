package validation

import (
	"strings"
	"testing"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
)

var testTags = []string{"internal-only", "client-report", "both", "carry-forward", "blocker", "info-only"}

func testValidator() *Validator {
	return New(DefaultVocabulary(testTags))
}

func validTemplate() *models.Template {
	return &models.Template{
		Name:         "daily status",
		TemplateType: "daily_internal",
		OutputFormat: "markdown",
		SubjectLine:  "Daily Report - {user_full_name} - {date_long}",
		Sections: []models.Section{
			{
				Name:        "accomplishments",
				Title:       "Accomplishments",
				Required:    true,
				DataSources: []string{"notes", "time_entries"},
				TagFilter:   models.TagFilter{Include: []string{"client-report"}, Exclude: []string{"internal-only"}},
				Format:      "bullets",
				AIProvider:  "claude",
			},
		},
	}
}

func TestValidTemplatePasses(t *testing.T) {
	v := testValidator()
	if errs := v.Validate(validTemplate()); len(errs) != 0 {
		t.Errorf("valid template reported problems: %v", errs)
	}
	if !v.IsValid(validTemplate()) {
		t.Error("IsValid = false for valid template")
	}
}

func TestMissingSectionsAlwaysReported(t *testing.T) {
	v := testValidator()

	// Missing sections is reported regardless of what else is wrong. The
	// list is a union, never short-circuited.
	tmpl := &models.Template{
		Name:         "",
		OutputFormat: "pdf",
		SubjectLine:  "Hello {nobody",
	}
	errs := v.Validate(tmpl)

	var sawSections, sawName, sawFormat bool
	for _, e := range errs {
		if strings.Contains(e, "'sections'") {
			sawSections = true
		}
		if strings.Contains(e, "'name'") {
			sawName = true
		}
		if strings.Contains(e, "output_format") {
			sawFormat = true
		}
	}
	if !sawSections {
		t.Errorf("missing sections not reported: %v", errs)
	}
	if !sawName || !sawFormat {
		t.Errorf("error list not a union of all checks: %v", errs)
	}
}

func TestEmptySectionsList(t *testing.T) {
	v := testValidator()
	tmpl := validTemplate()
	tmpl.Sections = []models.Section{}

	errs := v.Validate(tmpl)
	if len(errs) != 1 || !strings.Contains(errs[0], "at least one section") {
		t.Errorf("empty sections errors = %v", errs)
	}
}

func TestDuplicateSectionNames(t *testing.T) {
	v := testValidator()
	tmpl := validTemplate()
	tmpl.Sections = append(tmpl.Sections, tmpl.Sections[0])

	found := false
	for _, e := range v.Validate(tmpl) {
		if strings.Contains(e, "duplicate section name") {
			found = true
		}
	}
	if !found {
		t.Error("duplicate section name not reported")
	}
}

func TestVocabularyChecks(t *testing.T) {
	v := testValidator()

	tmpl := validTemplate()
	tmpl.OutputFormat = "pdf"
	tmpl.Sections[0].DataSources = []string{"notes", "calendar"}
	tmpl.Sections[0].TagFilter.Include = []string{"not-a-tag"}
	tmpl.Sections[0].Format = "table"
	tmpl.Sections[0].AIProvider = "gpt"

	errs := v.Validate(tmpl)
	wants := []string{
		"invalid output_format 'pdf'",
		"invalid data source 'calendar'",
		"invalid tag 'not-a-tag' in include filter",
		"invalid format 'table'",
		"invalid AI provider 'gpt'",
	}
	for _, want := range wants {
		found := false
		for _, e := range errs {
			if strings.Contains(e, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing %q in: %v", want, errs)
		}
	}
}

func TestSubjectLineChecks(t *testing.T) {
	v := testValidator()

	tmpl := validTemplate()
	tmpl.SubjectLine = "Report for {user_full_name"
	found := false
	for _, e := range v.Validate(tmpl) {
		if strings.Contains(e, "unmatched curly braces") {
			found = true
		}
	}
	if !found {
		t.Error("unbalanced braces not reported")
	}

	tmpl.SubjectLine = "Report for {unknown_var}"
	found = false
	for _, e := range v.Validate(tmpl) {
		if strings.Contains(e, "unknown variable '{unknown_var}'") {
			found = true
		}
	}
	if !found {
		t.Error("unknown variable not reported")
	}
}

func TestValidateAndRaise(t *testing.T) {
	v := testValidator()

	if err := v.ValidateAndRaise(validTemplate()); err != nil {
		t.Errorf("ValidateAndRaise on valid template: %v", err)
	}

	tmpl := validTemplate()
	tmpl.OutputFormat = "pdf"
	tmpl.Sections[0].Format = "table"
	err := v.ValidateAndRaise(tmpl)
	if !apperrors.HasCode(err, apperrors.CodeValidationFailed) {
		t.Fatalf("error = %v, want VALIDATION_FAILED", err)
	}
	// Every message is carried in the aggregated error.
	if !strings.Contains(err.Error(), "pdf") || !strings.Contains(err.Error(), "table") {
		t.Errorf("aggregated error missing messages: %v", err)
	}
}

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary(testTags)
	for _, format := range []string{"bullets", "prose", "time_summary", "numbered_list"} {
		if !contains(vocab.SectionFormats, format) {
			t.Errorf("SectionFormats missing %q", format)
		}
	}
	for _, source := range []string{"notes", "time_entries", "meetings", "projects", "clockify"} {
		if !contains(vocab.DataSources, source) {
			t.Errorf("DataSources missing %q", source)
		}
	}
	if !contains(vocab.Variables, "week_of") {
		t.Error("Variables missing week_of")
	}
}
