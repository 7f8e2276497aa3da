package rubric

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// evaluateContact checks for a contact section plus LinkedIn and GitHub
// profile links. The profile links are scanned over the whole document, since
// they commonly live in a navbar or footer rather than the contact section.
func (e *Evaluator) evaluateContact(doc *goquery.Document, checklist Checklist) {
	section := e.locator.Locate(doc, LabelContact)
	if section.Found() {
		checklist.pass("contact_section", "[PASS] Contact section found (%s)", section.Strategy)
	} else {
		checklist.fail("contact_section", "[FAIL] Contact section not found")
	}

	var linkedin, github string
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		lower := strings.ToLower(href)
		if linkedin == "" && strings.Contains(lower, "linkedin.com") {
			linkedin = href
		}
		if github == "" && strings.Contains(lower, "github.com") && !strings.Contains(lower, "/repos/") {
			github = href
		}
	})

	if linkedin != "" {
		checklist.pass("contact_linkedin", "[PASS] LinkedIn link found: %s", truncate(linkedin, 80))
	} else {
		checklist.fail("contact_linkedin", "[FAIL] No LinkedIn link found")
	}
	if github != "" {
		checklist.pass("contact_github", "[PASS] GitHub link found: %s", truncate(github, 80))
	} else {
		checklist.fail("contact_github", "[FAIL] No GitHub link found")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
