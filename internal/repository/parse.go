package repository

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

// ParseDuration parses a free-text duration into hours. Accepted forms:
// "2h", "1.5h", "30m", "1h30m", and bare numbers interpreted as hours.
// The result is rounded to two decimal places; zero or negative durations
// are rejected.
func ParseDuration(input string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, apperrors.InvalidInput("empty duration, use formats like: 1.5h, 2h, 30m, 1h30m")
	}

	var hours, minutes float64

	switch {
	case strings.Contains(s, "h"):
		parts := strings.SplitN(s, "h", 2)
		h, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, apperrors.InvalidInput("invalid duration format: %s", input)
		}
		hours = h
		if rest := strings.TrimSpace(strings.TrimSuffix(parts[1], "m")); rest != "" {
			m, err := strconv.ParseFloat(rest, 64)
			if err != nil {
				return 0, apperrors.InvalidInput("invalid duration format: %s", input)
			}
			minutes = m
		}
	case strings.Contains(s, "m"):
		m, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "m")), 64)
		if err != nil {
			return 0, apperrors.InvalidInput("invalid duration format: %s", input)
		}
		minutes = m
	default:
		h, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, apperrors.InvalidInput(
				"invalid duration format: %s, use formats like: 1.5h, 2h, 30m, 1h30m", input)
		}
		hours = h
	}

	total := hours + minutes/60.0
	if total <= 0 {
		return 0, apperrors.InvalidInput("duration must be greater than 0")
	}
	return math.Round(total*100) / 100, nil
}

// ParseClock parses a free-text time of day into 24-hour "HH:MM". Accepted
// forms: "14:30", "1430", "930" (three-digit shorthand), "2:30pm",
// "2:30 pm", "230pm", "900am".
func ParseClock(input string) (string, error) {
	s := strings.TrimSpace(input)

	// 24-hour with colon.
	if hh, mm, ok := splitColonTime(s); ok {
		return formatClock(hh, mm)
	}

	// Military time without colon: HHMM or the HMM shorthand.
	if isDigits(s) {
		switch len(s) {
		case 4:
			hh, _ := strconv.Atoi(s[:2])
			mm, _ := strconv.Atoi(s[2:])
			return formatClock(hh, mm)
		case 3:
			hh, _ := strconv.Atoi(s[:1])
			mm, _ := strconv.Atoi(s[1:])
			return formatClock(hh, mm)
		}
	}

	// 12-hour with am/pm suffix, with or without colon or space.
	lower := strings.ReplaceAll(strings.ToLower(s), " ", "")
	if strings.HasSuffix(lower, "am") || strings.HasSuffix(lower, "pm") {
		isPM := strings.HasSuffix(lower, "pm")
		num := strings.TrimSuffix(strings.TrimSuffix(lower, "am"), "pm")

		var hh, mm int
		if h, m, ok := splitColonTime(num); ok {
			hh, mm = h, m
		} else if isDigits(num) {
			switch len(num) {
			case 4:
				hh, _ = strconv.Atoi(num[:2])
				mm, _ = strconv.Atoi(num[2:])
			case 3:
				hh, _ = strconv.Atoi(num[:1])
				mm, _ = strconv.Atoi(num[1:])
			case 1, 2:
				hh, _ = strconv.Atoi(num)
			default:
				return "", clockFormatError(input)
			}
		} else {
			return "", clockFormatError(input)
		}

		if isPM && hh != 12 {
			hh += 12
		} else if !isPM && hh == 12 {
			hh = 0
		}
		return formatClock(hh, mm)
	}

	return "", clockFormatError(input)
}

func splitColonTime(s string) (int, int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) || len(parts[1]) != 2 {
		return 0, 0, false
	}
	hh, _ := strconv.Atoi(parts[0])
	mm, _ := strconv.Atoi(parts[1])
	return hh, mm, true
}

func formatClock(hh, mm int) (string, error) {
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return "", apperrors.InvalidInput("time out of range: %02d:%02d", hh, mm)
	}
	return padTwo(hh) + ":" + padTwo(mm), nil
}

func padTwo(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func clockFormatError(input string) error {
	return apperrors.InvalidInput(
		"invalid time format: %s, use 24-hour format (14:30 or 1430) or AM/PM (2:30pm or 230pm)", input)
}
