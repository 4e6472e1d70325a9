package renderer

import (
	"fmt"
	"strings"

	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/storage"
)

// StyleAdapter assembles writing-style guidance into AI prompts. It is pure
// text composition over a loaded style configuration; missing blocks are
// omitted, never an error.
type StyleAdapter struct {
	style *storage.StyleConfig
}

// NewStyleAdapter wraps a loaded style configuration. A nil config behaves
// like an empty one.
func NewStyleAdapter(style *storage.StyleConfig) *StyleAdapter {
	if style == nil {
		style = &storage.StyleConfig{}
	}
	return &StyleAdapter{style: style}
}

// FallbackLine returns the literal emitted for a required section with no
// data.
func (a *StyleAdapter) FallbackLine() string {
	return a.style.NoDataOutput.FallbackLine()
}

// GetStylePrompt concatenates the always-include guidance, the report-type
// specific guidance (internal vs client) and the formatting instructions as
// bulleted blocks.
func (a *StyleAdapter) GetStylePrompt(reportType string) string {
	guidance := a.style.PromptGuidance
	var parts []string

	if len(guidance.AlwaysInclude) > 0 {
		parts = append(parts, bulletBlock("**Writing Style:**", guidance.AlwaysInclude))
	}

	switch {
	case strings.Contains(reportType, "client"):
		if len(guidance.WeeklyClientSpecific) > 0 {
			parts = append(parts, bulletBlock("\n**Client Report Guidelines:**", guidance.WeeklyClientSpecific))
		}
	default:
		if len(guidance.DailyInternalSpecific) > 0 {
			parts = append(parts, bulletBlock("\n**Internal Report Guidelines:**", guidance.DailyInternalSpecific))
		}
	}

	if len(guidance.FormattingInstructions) > 0 {
		parts = append(parts, bulletBlock("\n**Formatting:**", guidance.FormattingInstructions))
	}

	return strings.Join(parts, "\n")
}

// GetSectionStyle returns the focus/pattern/length hints for a section, or
// nil when the style file has none.
func (a *StyleAdapter) GetSectionStyle(sectionName string) *storage.SectionStyle {
	s, ok := a.style.SectionStyles[sectionName]
	if !ok {
		return nil
	}
	return &s
}

// GetExamples returns the good and bad writing samples, optionally filtered
// by a context tag. An unmatched context yields empty lists.
func (a *StyleAdapter) GetExamples(context string) (good, bad []storage.StyleExample) {
	good = a.style.GoodExamples
	bad = a.style.BadExamples
	if context == "" {
		return good, bad
	}
	return filterExamples(good, context), filterExamples(bad, context)
}

func filterExamples(examples []storage.StyleExample, context string) []storage.StyleExample {
	var out []storage.StyleExample
	for _, ex := range examples {
		if strings.EqualFold(ex.Context, context) {
			out = append(out, ex)
		}
	}
	return out
}

// AvoidList returns the things to avoid in writing.
func (a *StyleAdapter) AvoidList() []string {
	return a.style.Avoid
}

// Principles returns the core writing principles.
func (a *StyleAdapter) Principles() []string {
	return a.style.CorePrinciples
}

// BuildAIPrompt concatenates, in fixed order: the section's base
// instruction, the style prompt, section-specific guidance, filtered
// examples, the fetched data, and the no-data instruction.
func (a *StyleAdapter) BuildAIPrompt(sectionName, instruction string, data models.SectionData, reportType string) string {
	var parts []string

	parts = append(parts, instruction)

	if style := a.GetStylePrompt(reportType); style != "" {
		parts = append(parts, "\n"+style)
	}

	if section := a.GetSectionStyle(sectionName); section != nil {
		block := []string{"\n**Section Guidelines:**"}
		if section.Focus != "" {
			block = append(block, "- Focus: "+section.Focus)
		}
		if section.ExamplePattern != "" {
			block = append(block, "- Pattern: "+section.ExamplePattern)
		}
		if section.Length != "" {
			block = append(block, "- Length: "+section.Length)
		}
		parts = append(parts, strings.Join(block, "\n"))
	}

	if examples := a.examplesPrompt(sectionName); examples != "" {
		parts = append(parts, examples)
	}

	parts = append(parts, "\n**Data to work with:**")

	if len(data.Notes) > 0 {
		block := []string{"\nNotes:"}
		for _, note := range data.Notes {
			block = append(block, "- "+note.Content)
		}
		parts = append(parts, strings.Join(block, "\n"))
	}

	if len(data.TimeEntries) > 0 {
		block := []string{"\nTime spent:"}
		for _, entry := range data.TimeEntries {
			block = append(block, fmt.Sprintf("- %s (%gh)", entry.Description, entry.DurationHours))
		}
		parts = append(parts, strings.Join(block, "\n"))
	}

	summaryBlock := []string{
		"\nSummary:",
		fmt.Sprintf("- Total time: %gh", data.Summary.TotalHours),
		fmt.Sprintf("- Number of items: %d", data.Summary.NoteCount),
	}
	parts = append(parts, strings.Join(summaryBlock, "\n"))

	parts = append(parts, fmt.Sprintf("\n**If no data:** Output exactly: %q", a.FallbackLine()))

	return strings.Join(parts, "\n")
}

func (a *StyleAdapter) examplesPrompt(context string) string {
	good, bad := a.GetExamples(context)
	if len(good) == 0 && len(bad) == 0 {
		return ""
	}

	parts := []string{"\n**Examples:**"}
	if len(good) > 0 {
		parts = append(parts, "\n*Good examples:*")
		for _, ex := range good {
			parts = append(parts, fmt.Sprintf("- %q", ex.Text))
			parts = append(parts, fmt.Sprintf("  (Why: %s)", ex.WhyGood))
		}
	}
	if len(bad) > 0 {
		parts = append(parts, "\n*Avoid:*")
		for _, ex := range bad {
			parts = append(parts, fmt.Sprintf("- %q", ex.Text))
			parts = append(parts, fmt.Sprintf("  (Why bad: %s)", ex.WhyBad))
		}
	}
	return strings.Join(parts, "\n")
}

func bulletBlock(header string, items []string) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, header)
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
