package renderer

import (
	"strings"
	"testing"
)

func TestBuildVariables(t *testing.T) {
	// 2026-03-04 is a Wednesday; the week's Monday is March 2.
	vars := BuildVariables(day("2026-03-04"), "Jordan Smith", []string{"Manager", "Lead"})

	want := map[string]string{
		"user_full_name": "Jordan Smith",
		"day_name":       "Wednesday",
		"date_long":      "March 04, 2026",
		"date_short":     "03/04/2026",
		"date_iso":       "2026-03-04",
		"week_of":        "Week of March 02, 2026",
		"recipients":     "Manager, Lead",
	}
	for key, value := range want {
		if vars[key] != value {
			t.Errorf("%s = %q, want %q", key, vars[key], value)
		}
	}
}

func TestBuildVariablesNoRecipients(t *testing.T) {
	vars := BuildVariables(day("2026-03-04"), "Jordan Smith", nil)
	if vars["recipients"] != "" {
		t.Errorf("recipients = %q, want empty", vars["recipients"])
	}
}

func TestSubstituteVariables(t *testing.T) {
	vars := BuildVariables(day("2026-03-04"), "Jordan Smith", nil)

	subject := "Daily Report - {user_full_name} - {date_long}"
	got := SubstituteVariables(subject, vars)
	if got != "Daily Report - Jordan Smith - March 04, 2026" {
		t.Errorf("SubstituteVariables = %q", got)
	}
	if strings.ContainsAny(got, "{}") {
		t.Errorf("braces survived full substitution: %q", got)
	}

	// Unknown tokens are left verbatim.
	got = SubstituteVariables("Hello {nobody}", vars)
	if got != "Hello {nobody}" {
		t.Errorf("unknown token was altered: %q", got)
	}
}

func TestResolveUserName(t *testing.T) {
	if got := ResolveUserName("Explicit Name", "Config Name"); got != "Explicit Name" {
		t.Errorf("explicit arg not preferred: %q", got)
	}

	t.Setenv("WORKMAIN_USER_NAME", "Env Name")
	if got := ResolveUserName("", "Config Name"); got != "Env Name" {
		t.Errorf("env override not used: %q", got)
	}

	t.Setenv("WORKMAIN_USER_NAME", "")
	if got := ResolveUserName("", "Config Name"); got != "Config Name" {
		t.Errorf("configured value not used: %q", got)
	}
	if got := ResolveUserName("", ""); got != "User Name" {
		t.Errorf("fallback = %q, want %q", got, "User Name")
	}
}
