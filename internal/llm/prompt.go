// Package llm - prompt.go builds the fixed reviewer prompt.
package llm

import (
	"fmt"
	"strings"
)

// reviewerPreamble is the fixed persona for every provider. Keeping one prompt
// across providers keeps their output comparable.
const reviewerPreamble = `You are a senior web developer reviewing a junior developer's portfolio website.
Write a short, constructive review (3-5 paragraphs) covering first impressions,
content quality, and the most impactful improvements. Be specific and encouraging.
Do not output markdown headings or bullet lists, just prose.`

// BuildReviewPrompt constructs the provider prompt, truncating the HTML to
// maxHTMLChars so oversized pages do not blow the provider's context window.
func BuildReviewPrompt(req Request, maxHTMLChars int) string {
	html := req.HTML
	if len(html) > maxHTMLChars {
		html = html[:maxHTMLChars]
	}

	var sb strings.Builder
	sb.WriteString(reviewerPreamble)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Portfolio URL: %s\n", req.URL)
	fmt.Fprintf(&sb, "Automated rubric score: %d/100\n", req.Score)
	if len(req.FailedKeys) > 0 {
		fmt.Fprintf(&sb, "Failed rubric checks: %s\n", strings.Join(req.FailedKeys, ", "))
	}
	sb.WriteString("\nPage HTML:\n\"\"\"\n")
	sb.WriteString(html)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
