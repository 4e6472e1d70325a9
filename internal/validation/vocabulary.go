package validation

import (
	"encoding/json"
	"os"
	"sort"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

// Vocabulary is the set of controlled value lists templates are validated
// against. Loaded once and treated as read-only.
type Vocabulary struct {
	OutputFormats  []string `json:"output_formats"`
	SectionFormats []string `json:"section_formats"`
	AIProviders    []string `json:"ai_providers"`
	DataSources    []string `json:"data_sources"`
	Tags           []string `json:"tags"`
	Variables      []string `json:"variables"`
}

// DefaultVocabulary returns the built-in controlled vocabularies. The tag
// list comes from the configured tag system so hand-edited tag vocabularies
// and template validation stay in sync.
func DefaultVocabulary(tagFullNames []string) Vocabulary {
	return Vocabulary{
		OutputFormats:  []string{"markdown", "html", "text"},
		SectionFormats: []string{"bullets", "prose", "time_summary", "numbered_list"},
		AIProviders:    []string{"claude", "gemini"},
		DataSources:    []string{"notes", "time_entries", "meetings", "projects", "clockify"},
		Tags:           append([]string(nil), tagFullNames...),
		Variables: []string{
			"user_full_name", "day_name", "date_long", "date_short",
			"date_iso", "week_of", "recipients",
		},
	}
}

// LoadVocabulary reads field definitions from a JSON document. Lists absent
// from the file keep the built-in defaults.
func LoadVocabulary(path string, tagFullNames []string) (Vocabulary, error) {
	vocab := DefaultVocabulary(tagFullNames)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Vocabulary{}, apperrors.NotFound("field definitions", path)
		}
		return Vocabulary{}, apperrors.Wrap(err, apperrors.CodeStorage, "reading field definitions %s", path)
	}

	var loaded Vocabulary
	if err := json.Unmarshal(data, &loaded); err != nil {
		return Vocabulary{}, apperrors.Wrap(err, apperrors.CodeMalformed, "invalid JSON in %s", path)
	}

	if len(loaded.OutputFormats) > 0 {
		vocab.OutputFormats = loaded.OutputFormats
	}
	if len(loaded.SectionFormats) > 0 {
		vocab.SectionFormats = loaded.SectionFormats
	}
	if len(loaded.AIProviders) > 0 {
		vocab.AIProviders = loaded.AIProviders
	}
	if len(loaded.DataSources) > 0 {
		vocab.DataSources = loaded.DataSources
	}
	if len(loaded.Tags) > 0 {
		vocab.Tags = loaded.Tags
	}
	if len(loaded.Variables) > 0 {
		vocab.Variables = loaded.Variables
	}
	return vocab, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func sortedCopy(list []string) []string {
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}
