package renderer

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// Variable names recognized in subject lines. KnownVariables is the set the
// validator checks against.
var KnownVariables = []string{
	"user_full_name",
	"day_name",
	"date_long",
	"date_short",
	"date_iso",
	"week_of",
	"recipients",
}

const (
	longDateLayout = "January 02, 2006"
	// Fallback when no name is configured anywhere.
	defaultUserName = "User Name"
)

var variablePattern = regexp.MustCompile(`\{(\w+)\}`)

// BuildVariables derives the substitution map for a report date. week_of is
// anchored to the Monday of the report date's week; recipients joins to an
// empty string when none are supplied.
func BuildVariables(reportDate time.Time, userFullName string, recipients []string) map[string]string {
	monday := weekMonday(reportDate)

	return map[string]string{
		"user_full_name": userFullName,
		"day_name":       reportDate.Format("Monday"),
		"date_long":      reportDate.Format(longDateLayout),
		"date_short":     reportDate.Format("01/02/2006"),
		"date_iso":       reportDate.Format("2006-01-02"),
		"week_of":        "Week of " + monday.Format(longDateLayout),
		"recipients":     strings.Join(recipients, ", "),
	}
}

// SubstituteVariables replaces every {key} token found in the variable map,
// leaving unknown tokens verbatim. Strict checking is the validator's job.
func SubstituteVariables(s string, variables map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(s, func(token string) string {
		key := token[1 : len(token)-1]
		if value, ok := variables[key]; ok {
			return value
		}
		return token
	})
}

// ResolveUserName picks the user's full name in priority order: explicit
// argument, environment override, configured value, fixed fallback.
func ResolveUserName(explicit, configured string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("WORKMAIN_USER_NAME"); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	return defaultUserName
}

// DescribeVariables returns the known variables with example values, for
// template-authoring help output.
func DescribeVariables() map[string]string {
	return map[string]string{
		"user_full_name": "User's full name",
		"day_name":       "Day of week (Monday, Tuesday, ...)",
		"date_long":      fmt.Sprintf("Long date (%s)", longDateLayout),
		"date_short":     "Short date (MM/DD/YYYY)",
		"date_iso":       "ISO date (YYYY-MM-DD)",
		"week_of":        "Week label anchored to Monday",
		"recipients":     "Comma-joined recipient list",
	}
}

// weekMonday returns the Monday of the week containing d.
func weekMonday(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
