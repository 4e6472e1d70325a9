package renderer

import (
	"fmt"
	"strings"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
)

// contentFormatter turns fetched section data into section content. The set
// of formats is closed; adding one means adding a formatter here and the
// vocabulary entry.
type contentFormatter interface {
	Format(data models.SectionData) []string
}

var formatters = map[models.SectionFormat]contentFormatter{
	models.FormatBullets:      bulletsFormatter{},
	models.FormatProse:        proseFormatter{},
	models.FormatTimeSummary:  timeSummaryFormatter{},
	models.FormatNumberedList: numberedListFormatter{},
}

// formatContent dispatches on the section format. An empty format means
// bullets; an unrecognized one fails loudly since it should have been
// caught by validation.
func formatContent(format string, data models.SectionData, required bool, fallback string) (string, error) {
	sf := models.SectionFormat(format)
	if format == "" {
		sf = models.FormatBullets
	}
	formatter, ok := formatters[sf]
	if !ok {
		return "", apperrors.Unsupported("section format", format)
	}

	lines := formatter.Format(data)
	if len(lines) == 0 {
		if required {
			return fallback, nil
		}
		return "", nil
	}
	return strings.Join(lines, "\n"), nil
}

// bulletsFormatter emits one bullet per note, then one per time entry.
type bulletsFormatter struct{}

func (bulletsFormatter) Format(data models.SectionData) []string {
	var lines []string
	for _, note := range data.Notes {
		lines = append(lines, "- "+note.Content)
	}
	for _, entry := range data.TimeEntries {
		lines = append(lines, fmt.Sprintf("- %s (%gh)", entry.Description, entry.DurationHours))
	}
	return lines
}

// proseFormatter concatenates note contents as plain lines.
type proseFormatter struct{}

func (proseFormatter) Format(data models.SectionData) []string {
	var lines []string
	for _, note := range data.Notes {
		lines = append(lines, note.Content)
	}
	return lines
}

// timeSummaryFormatter emits per-category hour lines plus a bolded total.
type timeSummaryFormatter struct{}

func (timeSummaryFormatter) Format(data models.SectionData) []string {
	if len(data.Summary.CategoryHours) == 0 {
		return nil
	}
	var lines []string
	for _, category := range sortedKeys(data.Summary.CategoryHours) {
		lines = append(lines, fmt.Sprintf("- %s: %.2fh", category, data.Summary.CategoryHours[category]))
	}
	lines = append(lines, fmt.Sprintf("- **Total**: %.2fh", data.Summary.TotalHours))
	return lines
}

// numberedListFormatter numbers the notes from one.
type numberedListFormatter struct{}

func (numberedListFormatter) Format(data models.SectionData) []string {
	var lines []string
	for i, note := range data.Notes {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, note.Content))
	}
	return lines
}
