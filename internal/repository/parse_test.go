package repository

import (
	"testing"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"2h", 2.0},
		{"1.5h", 1.5},
		{"30m", 0.5},
		{"45m", 0.75},
		{"1h30m", 1.5},
		{"2h15m", 2.25},
		{"0.25", 0.25},
		{"2", 2.0},
		{"  1h  ", 1.0},
		{"90m", 1.5},
		{"1h 30m", 1.5},
		{"20m", 0.33},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.input)
		if err != nil {
			t.Errorf("ParseDuration(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDurationRejects(t *testing.T) {
	for _, input := range []string{"", "abc", "0", "-1h", "0m", "h", "xh"} {
		_, err := ParseDuration(input)
		if err == nil {
			t.Errorf("ParseDuration(%q) expected error, got none", input)
			continue
		}
		if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Errorf("ParseDuration(%q) error code = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"14:30", "14:30"},
		{"9:05", "09:05"},
		{"1430", "14:30"},
		{"0930", "09:30"},
		{"930", "09:30"},
		{"2:30pm", "14:30"},
		{"2:30 pm", "14:30"},
		{"2:30PM", "14:30"},
		{"230pm", "14:30"},
		{"900am", "09:00"},
		{"12:00pm", "12:00"},
		{"12:00am", "00:00"},
		{"12am", "00:00"},
		{"1pm", "13:00"},
		{"11:59pm", "23:59"},
		{"0:00", "00:00"},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.input)
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseClockRejects(t *testing.T) {
	for _, input := range []string{"", "25:00", "12:60", "2460", "notatime", "99pm", "13:5"} {
		_, err := ParseClock(input)
		if err == nil {
			t.Errorf("ParseClock(%q) expected error, got none", input)
			continue
		}
		if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Errorf("ParseClock(%q) error code = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"weekly sync", "weekly sync", 1.0, 1.0},
		{"", "", 1.0, 1.0},
		{"abc", "", 0.0, 0.0},
		{"weekly sync", "weekly  sync", 0.9, 1.0},
		{"standup", "xyzqv", 0.0, 0.3},
	}
	for _, tc := range cases {
		got := similarityRatio(tc.a, tc.b)
		if got < tc.min || got > tc.max {
			t.Errorf("similarityRatio(%q, %q) = %v, want within [%v, %v]", tc.a, tc.b, got, tc.min, tc.max)
		}
		if got < 0 || got > 1 {
			t.Errorf("similarityRatio(%q, %q) = %v, outside [0,1]", tc.a, tc.b, got)
		}
	}
}
