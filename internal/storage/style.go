package storage

import (
	"encoding/json"
	"os"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

// StyleConfig is the writing-style document injected into AI prompts.
// Every block is optional; missing blocks are simply omitted from prompts.
type StyleConfig struct {
	PromptGuidance PromptGuidance          `json:"ai_prompt_guidance,omitempty"`
	SectionStyles  map[string]SectionStyle `json:"section_specific_styles,omitempty"`
	GoodExamples   []StyleExample          `json:"good_examples,omitempty"`
	BadExamples    []StyleExample          `json:"bad_examples,omitempty"`
	NoDataOutput   NoDataOutput            `json:"output_when_no_data,omitempty"`
	Avoid          []string                `json:"avoid,omitempty"`
	CorePrinciples []string                `json:"core_principles,omitempty"`
}

// PromptGuidance groups the bulleted guidance blocks by audience.
type PromptGuidance struct {
	AlwaysInclude          []string `json:"always_include,omitempty"`
	DailyInternalSpecific  []string `json:"daily_internal_specific,omitempty"`
	WeeklyClientSpecific   []string `json:"weekly_client_specific,omitempty"`
	FormattingInstructions []string `json:"formatting_instructions,omitempty"`
}

// SectionStyle carries per-section focus, pattern and length hints.
type SectionStyle struct {
	Focus          string `json:"focus,omitempty"`
	ExamplePattern string `json:"example_pattern,omitempty"`
	Length         string `json:"length,omitempty"`
}

// StyleExample is one good or bad writing sample, optionally tagged with a
// free-text context for filtering.
type StyleExample struct {
	Text    string `json:"text"`
	WhyGood string `json:"why_good,omitempty"`
	WhyBad  string `json:"why_bad,omitempty"`
	Context string `json:"context,omitempty"`
}

// NoDataOutput configures the literal line emitted for a required section
// with no matching records.
type NoDataOutput struct {
	Default string `json:"default,omitempty"`
}

// FallbackLine returns the configured no-data line, or the standard literal.
func (n NoDataOutput) FallbackLine() string {
	if n.Default != "" {
		return n.Default
	}
	return "None at this time."
}

// LoadStyle reads a writing-style configuration from a JSON file.
func LoadStyle(path string) (*StyleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("writing style file", path)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "reading writing style %s", path)
	}
	var cfg StyleConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformed, "invalid JSON in %s", path)
	}
	return &cfg, nil
}
