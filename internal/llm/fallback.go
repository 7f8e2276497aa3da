package llm

import (
	"context"
	"fmt"
	"strings"
)

// RuleBased is the terminal provider: a deterministic review composed from
// the rubric outcome. It exists so a grading never ships without narrative
// feedback, whatever happens to the hosted providers.
type RuleBased struct{}

// Name implements Provider.
func (RuleBased) Name() string { return "rule-based" }

// Available implements Provider.
func (RuleBased) Available() bool { return true }

// topicAdvice maps a failed-key prefix to one fixed advice sentence.
var topicAdvice = []struct {
	prefix string
	advice string
}{
	{"about_", "Strengthen the about section: a clear name, a professional photo, and a short introduction are what visitors look for first."},
	{"projects_", "Improve the projects section: aim for at least three finished projects, each with a description, a repository link, and a live deployment."},
	{"skills_", "Make your skills easier to scan, for example as a list of badges or icons instead of prose."},
	{"contact_", "Make it easy to reach you: add a contact section with links to your LinkedIn and GitHub profiles."},
	{"links_", "Fix broken or placeholder links; every anchor on the page should lead somewhere real."},
	{"responsive_", "Add responsive styling so the site works on phones; a viewport meta tag and media queries are the usual starting point."},
	{"external_", "Open external links in a new tab so visitors do not lose your portfolio while exploring your work."},
}

// Analyze implements Provider.
func (RuleBased) Analyze(_ context.Context, req Request) (string, error) {
	var sb strings.Builder

	switch {
	case req.Score >= 85:
		sb.WriteString("This is a strong portfolio. The essential sections are in place and the site presents its work clearly. ")
	case req.Score >= 60:
		sb.WriteString("This portfolio has a solid foundation but leaves points on the table. ")
	default:
		sb.WriteString("This portfolio needs significant work before sharing it with employers. ")
	}
	fmt.Fprintf(&sb, "The automated review scored it %d out of 100.", req.Score)

	seen := make(map[string]struct{})
	for _, key := range req.FailedKeys {
		for _, t := range topicAdvice {
			if !strings.HasPrefix(key, t.prefix) {
				continue
			}
			if _, dup := seen[t.prefix]; !dup {
				seen[t.prefix] = struct{}{}
				sb.WriteString("\n\n")
				sb.WriteString(t.advice)
			}
			break
		}
	}

	if len(seen) == 0 && req.Score < 100 {
		sb.WriteString("\n\nReview the remaining failed checks and polish the details; small fixes add up quickly.")
	}
	return sb.String(), nil
}
