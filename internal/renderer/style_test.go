package renderer

import (
	"strings"
	"testing"

	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/storage"
)

func testStyle() *StyleAdapter {
	return NewStyleAdapter(&storage.StyleConfig{
		PromptGuidance: storage.PromptGuidance{
			AlwaysInclude:          []string{"Be concise", "Use active voice"},
			DailyInternalSpecific:  []string{"Mention blockers"},
			WeeklyClientSpecific:   []string{"No internal jargon"},
			FormattingInstructions: []string{"Use markdown bullets"},
		},
		SectionStyles: map[string]storage.SectionStyle{
			"deliverables": {Focus: "outcomes", Length: "1-2 lines each"},
		},
		GoodExamples: []storage.StyleExample{
			{Text: "Shipped the importer", WhyGood: "specific and done", Context: "deliverables"},
			{Text: "Unblocked QA", WhyGood: "impact", Context: "blockers"},
		},
		BadExamples: []storage.StyleExample{
			{Text: "Did stuff", WhyBad: "vague", Context: "deliverables"},
		},
	})
}

func TestGetStylePrompt(t *testing.T) {
	adapter := testStyle()

	internal := adapter.GetStylePrompt("daily_internal")
	for _, want := range []string{"**Writing Style:**", "- Be concise", "**Internal Report Guidelines:**", "- Mention blockers", "**Formatting:**"} {
		if !strings.Contains(internal, want) {
			t.Errorf("internal prompt missing %q:\n%s", want, internal)
		}
	}
	if strings.Contains(internal, "No internal jargon") {
		t.Error("internal prompt contains client guidance")
	}

	client := adapter.GetStylePrompt("weekly_client_friday")
	if !strings.Contains(client, "**Client Report Guidelines:**") || !strings.Contains(client, "- No internal jargon") {
		t.Errorf("client prompt missing client guidance:\n%s", client)
	}
}

func TestGetStylePromptEmptyConfig(t *testing.T) {
	adapter := NewStyleAdapter(nil)
	if got := adapter.GetStylePrompt("daily_internal"); got != "" {
		t.Errorf("empty config prompt = %q, want empty", got)
	}
	if adapter.FallbackLine() != "None at this time." {
		t.Errorf("FallbackLine = %q", adapter.FallbackLine())
	}
}

func TestGetExamplesFiltering(t *testing.T) {
	adapter := testStyle()

	good, bad := adapter.GetExamples("deliverables")
	if len(good) != 1 || good[0].Text != "Shipped the importer" {
		t.Errorf("good = %+v", good)
	}
	if len(bad) != 1 {
		t.Errorf("bad = %+v", bad)
	}

	good, bad = adapter.GetExamples("nonexistent")
	if len(good) != 0 || len(bad) != 0 {
		t.Errorf("unmatched context yielded examples: %d good, %d bad", len(good), len(bad))
	}

	good, _ = adapter.GetExamples("")
	if len(good) != 2 {
		t.Errorf("unfiltered good = %d, want 2", len(good))
	}
}

func TestBuildAIPromptOrder(t *testing.T) {
	adapter := testStyle()
	data := models.SectionData{
		Notes: []models.NoteView{{Content: "Shipped the importer"}},
		TimeEntries: []models.TimeEntryView{
			{Description: "import work", DurationHours: 2},
		},
		Summary: models.SectionSummary{NoteCount: 1, TotalHours: 2},
	}

	prompt := adapter.BuildAIPrompt("deliverables", "Summarize deliverables.", data, "daily_internal")

	markers := []string{
		"Summarize deliverables.",
		"**Writing Style:**",
		"**Section Guidelines:**",
		"- Focus: outcomes",
		"**Examples:**",
		"**Data to work with:**",
		"- Shipped the importer",
		"- import work (2h)",
		"Summary:",
		`**If no data:** Output exactly: "None at this time."`,
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(prompt, marker)
		if idx < 0 {
			t.Errorf("prompt missing %q:\n%s", marker, prompt)
			continue
		}
		if idx < last {
			t.Errorf("prompt order wrong: %q appears before a prior marker", marker)
		}
		last = idx
	}
}
