// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxEvidenceToShow caps the evidence lines printed per parameter
	maxEvidenceToShow = 2
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScore outputs the headline score, category breakdown, and metadata.
func (p *Printer) PrintScore(result *types.GradingResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:    %s\n", result.URL))
	sb.WriteString(fmt.Sprintf("Score:  %d / 100\n", result.Score))
	sb.WriteString(fmt.Sprintf("Passed: %d of %d parameters\n", result.Checklist.Passed(), len(rubric.Keys)))

	if len(result.Categories) > 0 {
		sb.WriteString("\nCategories:\n")
		for _, cat := range result.Categories {
			sb.WriteString(fmt.Sprintf("  %-18s %2d/%2d pts (%d/%d)\n",
				cat.Name, cat.Earned, cat.Weight, cat.Passed, cat.Total))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Fetched via: %s", result.FetchMethod))
	if result.FromCache {
		sb.WriteString(" (cached)")
	}
	sb.WriteString("\n")
	if result.ShareID != "" {
		sb.WriteString(fmt.Sprintf("Share id:    %s\n", result.ShareID))
	}
	sb.WriteString(fmt.Sprintf("Duration:    %dms", result.DurationMS))

	p.printBox("PORTFOLIO GRADE", sb.String())
}

// PrintChecklist outputs every rubric parameter with its outcome and evidence.
func (p *Printer) PrintChecklist(checklist rubric.Checklist) {
	if checklist == nil {
		return
	}

	var sb strings.Builder
	for _, key := range rubric.Keys {
		item := checklist[key]
		mark := "✗"
		if item != nil && item.Pass {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, key))

		if item != nil {
			count := min(len(item.Evidence), maxEvidenceToShow)
			for j := 0; j < count; j++ {
				sb.WriteString(fmt.Sprintf("    %s\n", item.Evidence[j]))
			}
			if len(item.Evidence) > maxEvidenceToShow {
				sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(item.Evidence)-maxEvidenceToShow))
			}
		}
	}

	p.printBox("CHECKLIST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResources outputs the suggested learning resources, if any.
func (p *Printer) PrintResources(resources []types.Resource) {
	if len(resources) == 0 {
		return
	}

	var sb strings.Builder
	for i, res := range resources {
		sb.WriteString(fmt.Sprintf("• %s\n", res.Title))
		sb.WriteString(fmt.Sprintf("  %s\n", res.URL))
		if i < len(resources)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SUGGESTED RESOURCES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the AI narrative review, wrapped to the box width.
func (p *Printer) PrintAnalysis(analysis *types.AIAnalysis) {
	if analysis == nil || analysis.Text == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(wrapText(analysis.Text, boxWidth-4))
	sb.WriteString(fmt.Sprintf("\n\n(provider: %s)", analysis.Provider))

	p.printBox("AI REVIEW", sb.String())
}

// PrintPhoto outputs the profile photo validation outcome.
func (p *Printer) PrintPhoto(photo *types.FaceReport) {
	if photo == nil {
		return
	}

	var sb strings.Builder
	if !photo.Checked {
		sb.WriteString("Not checked (detection disabled or unavailable)")
	} else {
		sb.WriteString(fmt.Sprintf("Faces found:  %d\n", photo.FaceCount))
		sb.WriteString(fmt.Sprintf("Confidence:   %.2f\n", photo.Confidence))
		verdict := "needs attention"
		if photo.Professional {
			verdict = "looks professional"
		}
		sb.WriteString(fmt.Sprintf("Verdict:      %s", verdict))
	}
	if photo.ImageURL != "" {
		sb.WriteString(fmt.Sprintf("\nImage:        %s", photo.ImageURL))
	}

	p.printBox("PROFILE PHOTO", sb.String())
}

// PrintBatchStats outputs the aggregate outcome of a finished batch.
func (p *Printer) PrintBatchStats(stats types.BatchStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Graded:    %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", stats.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", stats.Failed))
	sb.WriteString(fmt.Sprintf("Average:   %.1f\n", stats.AverageScore))
	sb.WriteString(fmt.Sprintf("High:      %d\n", stats.HighScore))
	sb.WriteString(fmt.Sprintf("Low:       %d", stats.LowScore))

	p.printBox("BATCH SUMMARY", sb.String())
}

// wrapText folds text at word boundaries so it fits inside the box.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if lineLen > 0 && lineLen+1+len(word) > width {
			sb.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			sb.WriteString(" ")
			lineLen++
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
