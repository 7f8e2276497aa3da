package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

func sampleResult() *types.GradingResult {
	checklist := rubric.NewChecklist()
	checklist["about_section"].Pass = true
	checklist["about_section"].Evidence = append(checklist["about_section"].Evidence, "[PASS] Found about section")

	return &types.GradingResult{
		URL:       "https://janedoe.dev",
		Success:   true,
		Score:     42,
		Checklist: checklist,
		Categories: []types.ScoredCategory{
			{Name: "about", Weight: 10, Earned: 10, Passed: 5, Total: 5},
		},
		FetchMethod: "http",
		DurationMS:  1200,
	}
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScore(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "PORTFOLIO GRADE")
	assert.Contains(t, out, "https://janedoe.dev")
	assert.Contains(t, out, "42 / 100")
	assert.Contains(t, out, "about")
}

func TestPrintScoreNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScore(nil)
	assert.Empty(t, buf.String())
}

func TestPrintChecklist(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChecklist(sampleResult().Checklist)

	out := buf.String()
	assert.Contains(t, out, "✓ about_section")
	assert.Contains(t, out, "✗ projects_section")
	assert.Contains(t, out, "[PASS] Found about section")
}

func TestPrintChecklistTruncatesEvidence(t *testing.T) {
	checklist := rubric.NewChecklist()
	for i := 0; i < 5; i++ {
		checklist["projects_links"].Evidence = append(checklist["projects_links"].Evidence, "evidence line")
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintChecklist(checklist)
	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintResources(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintResources(nil)
	assert.Empty(t, buf.String())

	printer.PrintResources([]types.Resource{
		{Topic: "about", Title: "Personal Website Guide", URL: "https://example.com/guide"},
	})
	out := buf.String()
	assert.Contains(t, out, "SUGGESTED RESOURCES")
	assert.Contains(t, out, "Personal Website Guide")
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintAnalysis(nil)
	assert.Empty(t, buf.String())

	printer.PrintAnalysis(&types.AIAnalysis{
		Text:     strings.Repeat("solid work on the project section ", 10),
		Provider: "gemini",
	})
	out := buf.String()
	assert.Contains(t, out, "AI REVIEW")
	assert.Contains(t, out, "provider: gemini")
}

func TestPrintPhoto(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPhoto(&types.FaceReport{
		Checked: true, HasFace: true, FaceCount: 1, Confidence: 0.92, Professional: true,
		ImageURL: "https://janedoe.dev/img/profile.jpg",
	})

	out := buf.String()
	assert.Contains(t, out, "PROFILE PHOTO")
	assert.Contains(t, out, "looks professional")

	buf.Reset()
	NewPrinter(&buf).PrintPhoto(&types.FaceReport{})
	assert.Contains(t, buf.String(), "Not checked")
}

func TestPrintBatchStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBatchStats(types.BatchStats{
		Total: 3, Succeeded: 2, Failed: 1, AverageScore: 55.5, HighScore: 80, LowScore: 31,
	})

	out := buf.String()
	assert.Contains(t, out, "BATCH SUMMARY")
	assert.Contains(t, out, "Average:   55.5")
}

func TestWrapText(t *testing.T) {
	assert.Empty(t, wrapText("", 20))
	assert.Equal(t, "one two", wrapText("one two", 20))

	wrapped := wrapText("alpha beta gamma delta epsilon", 11)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 11)
	}
}
