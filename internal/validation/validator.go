// Package validation checks report templates against the controlled
// vocabularies. Templates are hand-authored, so the validator reports every
// problem it finds instead of aborting on the first; callers decide whether
// to show the list, save anyway, or refuse to proceed.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
)

var subjectVarPattern = regexp.MustCompile(`\{(\w+)\}`)

// Validator validates template structure against a vocabulary.
type Validator struct {
	vocab Vocabulary
}

// New creates a validator over a vocabulary.
func New(vocab Vocabulary) *Validator {
	return &Validator{vocab: vocab}
}

// Validate returns every rule violation found in the template. An empty list
// means the template is valid. The result is a union across all checks, never
// short-circuited.
func (v *Validator) Validate(tmpl *models.Template) []string {
	var errs []string

	errs = append(errs, v.validateTopLevel(tmpl)...)
	errs = append(errs, v.validateSections(tmpl.Sections)...)

	if tmpl.OutputFormat != "" && !contains(v.vocab.OutputFormats, tmpl.OutputFormat) {
		errs = append(errs, fmt.Sprintf(
			"invalid output_format '%s', must be one of: %s",
			tmpl.OutputFormat, strings.Join(sortedCopy(v.vocab.OutputFormats), ", ")))
	}

	if tmpl.AIProviderDefault != "" && !contains(v.vocab.AIProviders, tmpl.AIProviderDefault) {
		errs = append(errs, fmt.Sprintf(
			"invalid AI provider '%s', must be one of: %s",
			tmpl.AIProviderDefault, strings.Join(sortedCopy(v.vocab.AIProviders), ", ")))
	}

	if tmpl.SubjectLine != "" {
		errs = append(errs, v.validateSubjectLine(tmpl.SubjectLine)...)
	}

	return errs
}

func (v *Validator) validateTopLevel(tmpl *models.Template) []string {
	var errs []string
	if tmpl.Name == "" {
		errs = append(errs, "missing required field: 'name'")
	}
	if tmpl.Sections == nil {
		errs = append(errs, "missing required field: 'sections'")
	}
	if tmpl.OutputFormat == "" {
		errs = append(errs, "missing required field: 'output_format'")
	}
	return errs
}

func (v *Validator) validateSections(sections []models.Section) []string {
	var errs []string

	if sections != nil && len(sections) == 0 {
		return []string{"template must have at least one section"}
	}

	seen := make(map[string]bool)
	for idx, section := range sections {
		errs = append(errs, v.validateSection(section, idx)...)

		if section.Name != "" {
			if seen[section.Name] {
				errs = append(errs, fmt.Sprintf("duplicate section name: '%s'", section.Name))
			}
			seen[section.Name] = true
		}
	}
	return errs
}

func (v *Validator) validateSection(section models.Section, idx int) []string {
	var errs []string
	prefix := fmt.Sprintf("section %d", idx)

	if section.Name == "" {
		errs = append(errs, fmt.Sprintf("%s: missing required field 'name'", prefix))
	}
	if section.Title == "" {
		errs = append(errs, fmt.Sprintf("%s: missing required field 'title'", prefix))
	}

	for _, source := range section.DataSources {
		if !contains(v.vocab.DataSources, source) {
			errs = append(errs, fmt.Sprintf(
				"%s: invalid data source '%s', must be one of: %s",
				prefix, source, strings.Join(sortedCopy(v.vocab.DataSources), ", ")))
		}
	}

	errs = append(errs, v.validateTagList(section.TagFilter.Include, prefix, "include")...)
	errs = append(errs, v.validateTagList(section.TagFilter.Exclude, prefix, "exclude")...)

	if section.Format != "" && !contains(v.vocab.SectionFormats, section.Format) {
		errs = append(errs, fmt.Sprintf(
			"%s: invalid format '%s', must be one of: %s",
			prefix, section.Format, strings.Join(sortedCopy(v.vocab.SectionFormats), ", ")))
	}

	if section.AIProvider != "" && !contains(v.vocab.AIProviders, section.AIProvider) {
		errs = append(errs, fmt.Sprintf(
			"%s: invalid AI provider '%s', must be one of: %s",
			prefix, section.AIProvider, strings.Join(sortedCopy(v.vocab.AIProviders), ", ")))
	}

	return errs
}

func (v *Validator) validateTagList(tags []string, prefix, kind string) []string {
	var errs []string
	for _, tag := range tags {
		if !contains(v.vocab.Tags, tag) {
			errs = append(errs, fmt.Sprintf(
				"%s: invalid tag '%s' in %s filter, must be one of: %s",
				prefix, tag, kind, strings.Join(sortedCopy(v.vocab.Tags), ", ")))
		}
	}
	return errs
}

func (v *Validator) validateSubjectLine(subject string) []string {
	var errs []string

	if strings.Count(subject, "{") != strings.Count(subject, "}") {
		errs = append(errs, "subject line has unmatched curly braces")
	}

	for _, m := range subjectVarPattern.FindAllStringSubmatch(subject, -1) {
		if !contains(v.vocab.Variables, m[1]) {
			errs = append(errs, fmt.Sprintf(
				"unknown variable '{%s}' in subject line, valid variables: %s",
				m[1], strings.Join(sortedCopy(v.vocab.Variables), ", ")))
		}
	}
	return errs
}

// IsValid reports whether the template has no violations.
func (v *Validator) IsValid(tmpl *models.Template) bool {
	return len(v.Validate(tmpl)) == 0
}

// ValidateAndRaise runs the same checks and returns a single aggregated
// VALIDATION_FAILED error when any violation exists. Used by the renderer,
// which cannot proceed with a broken template.
func (v *Validator) ValidateAndRaise(tmpl *models.Template) error {
	errs := v.Validate(tmpl)
	if len(errs) > 0 {
		return apperrors.ValidationFailed(errs)
	}
	return nil
}
