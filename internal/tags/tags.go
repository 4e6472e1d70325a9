// Package tags implements the hashtag parsing, validation and normalization
// pipeline. Tags are typed inline as short forms (#ilo), validated against a
// configured vocabulary, stored as canonical full names (internal-only),
// always lower-case, deduplicated and alphabetically sorted.
package tags

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

var tagPattern = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
var spaceRuns = regexp.MustCompile(`\s+`)

// Mapping describes one configured tag.
type Mapping struct {
	FullName        string          `json:"full_name"`
	Description     string          `json:"description,omitempty"`
	ReportInclusion map[string]bool `json:"report_inclusion,omitempty"`
}

// Config is the tag vocabulary, keyed by shortcut.
type Config struct {
	Mappings   map[string]Mapping `json:"tag_mappings"`
	DefaultTag string             `json:"default_tag"`
}

// DefaultConfig returns the built-in vocabulary used when no tags.json is
// configured.
func DefaultConfig() Config {
	return Config{
		DefaultTag: "ilo",
		Mappings: map[string]Mapping{
			"ilo": {
				FullName:        "internal-only",
				Description:     "Internal reporting only, never shown to clients",
				ReportInclusion: map[string]bool{"daily_internal": true},
			},
			"cr": {
				FullName:        "client-report",
				Description:     "Included in client-facing reports",
				ReportInclusion: map[string]bool{"weekly_client_thursday": true, "weekly_client_friday": true},
			},
			"ifo": {
				FullName:        "info-only",
				Description:     "Informational, no action required",
				ReportInclusion: map[string]bool{"daily_internal": true},
			},
			"both": {
				FullName:        "both",
				Description:     "Internal and client reports",
				ReportInclusion: map[string]bool{"daily_internal": true, "weekly_client_thursday": true, "weekly_client_friday": true},
			},
			"cf": {
				FullName:        "carry-forward",
				Description:     "Carries forward to the next report",
				ReportInclusion: map[string]bool{"daily_internal": true},
			},
			"bl": {
				FullName:        "blocker",
				Description:     "Blocking issue needing attention",
				ReportInclusion: map[string]bool{"daily_internal": true, "weekly_client_thursday": true, "weekly_client_friday": true},
			},
		},
	}
}

// LoadConfig reads a tag vocabulary from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, apperrors.NotFound("tag configuration", path)
		}
		return Config{}, apperrors.Wrap(err, apperrors.CodeStorage, "reading tag configuration %s", path)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperrors.Wrap(err, apperrors.CodeMalformed, "invalid JSON in %s", path)
	}
	return cfg, nil
}

// System holds one tag vocabulary and implements the processing pipeline.
// It is pure over strings and lists; construct one per use site rather than
// sharing a global.
type System struct {
	cfg     Config
	reverse map[string]string // full name -> shortcut
}

// NewSystem builds a tag system over a vocabulary.
func NewSystem(cfg Config) *System {
	reverse := make(map[string]string, len(cfg.Mappings))
	for short, m := range cfg.Mappings {
		reverse[m.FullName] = short
	}
	return &System{cfg: cfg, reverse: reverse}
}

// ExtractTags scans text for #shortcut tokens, strips them, collapses the
// resulting whitespace runs and trims. Extracted tokens are lower-cased and
// returned in order of first appearance, duplicates retained.
func (s *System) ExtractTags(text string) (string, []string) {
	var raw []string
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		raw = append(raw, strings.ToLower(m[1]))
	}
	clean := tagPattern.ReplaceAllString(text, "")
	clean = strings.TrimSpace(clean)
	clean = spaceRuns.ReplaceAllString(clean, " ")
	return clean, raw
}

// ValidateTags partitions shortcuts into known and unknown, case-insensitive.
// Unknown tokens are reported, never dropped silently.
func (s *System) ValidateTags(raw []string) (valid, invalid []string) {
	for _, tag := range raw {
		lower := strings.ToLower(tag)
		if _, ok := s.cfg.Mappings[lower]; ok {
			valid = append(valid, lower)
		} else {
			invalid = append(invalid, tag)
		}
	}
	return valid, invalid
}

// ConvertToFullNames maps shortcuts to canonical full names, order preserved.
// Unknown shortcuts are skipped; run ValidateTags first.
func (s *System) ConvertToFullNames(shortcuts []string) []string {
	var full []string
	for _, tag := range shortcuts {
		if m, ok := s.cfg.Mappings[strings.ToLower(tag)]; ok {
			full = append(full, m.FullName)
		}
	}
	return full
}

// NormalizeTags deduplicates and sorts ascending. Idempotent.
func (s *System) NormalizeTags(full []string) []string {
	seen := make(map[string]struct{}, len(full))
	var out []string
	for _, tag := range full {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// ApplyDefaultTag returns the configured default shortcut when the input is
// empty, the input unchanged otherwise. It runs before validation so the
// default is validated like any other tag.
func (s *System) ApplyDefaultTag(raw []string) []string {
	if len(raw) == 0 && s.cfg.DefaultTag != "" {
		return []string{s.cfg.DefaultTag}
	}
	return raw
}

// ProcessTags is the composed pipeline used by note and time-entry creation:
// extract, apply the default when extraction yielded nothing, validate,
// convert, normalize. If invalid tags were extracted the default is NOT
// applied; the user expressed intent to tag, even if incorrectly.
func (s *System) ProcessTags(text string, applyDefault bool) (cleanText string, fullTags, invalid []string) {
	cleanText, raw := s.ExtractTags(text)
	if applyDefault {
		raw = s.ApplyDefaultTag(raw)
	}
	valid, invalid := s.ValidateTags(raw)
	full := s.ConvertToFullNames(valid)
	return cleanText, s.NormalizeTags(full), invalid
}

// FormatDisplay renders full names as "[tag1] [tag2]" in the order given.
// Callers pass already-normalized lists.
func (s *System) FormatDisplay(full []string) string {
	if len(full) == 0 {
		return ""
	}
	parts := make([]string, len(full))
	for i, tag := range full {
		parts[i] = fmt.Sprintf("[%s]", tag)
	}
	return strings.Join(parts, " ")
}

// ValidShortcuts returns every configured shortcut, sorted.
func (s *System) ValidShortcuts() []string {
	out := make([]string, 0, len(s.cfg.Mappings))
	for short := range s.cfg.Mappings {
		out = append(out, short)
	}
	sort.Strings(out)
	return out
}

// ValidFullNames returns every configured full name, sorted.
func (s *System) ValidFullNames() []string {
	out := make([]string, 0, len(s.reverse))
	for full := range s.reverse {
		out = append(out, full)
	}
	sort.Strings(out)
	return out
}

// Description returns the configured description for a shortcut, or "".
func (s *System) Description(shortcut string) string {
	if m, ok := s.cfg.Mappings[strings.ToLower(shortcut)]; ok {
		return m.Description
	}
	return ""
}

// DefaultTag returns the configured default shortcut.
func (s *System) DefaultTag() string {
	return s.cfg.DefaultTag
}

// TagsForReport returns every full name whose configuration marks it
// includable for the given report type, sorted.
func (s *System) TagsForReport(reportType string) []string {
	var out []string
	for _, m := range s.cfg.Mappings {
		if m.ReportInclusion[reportType] {
			out = append(out, m.FullName)
		}
	}
	sort.Strings(out)
	return out
}
