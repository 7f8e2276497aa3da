package rubric

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var skillBadgeClassRE = regexp.MustCompile(`(?i)badge|tag|chip|skill|tech`)
var skillListItemRE = regexp.MustCompile(`(?i)skill|tech`)

// evaluateSkills checks that a skills section exists and that individual
// skills are visually highlighted rather than buried in prose. Any one of
// several presentation styles counts: icon elements, badge-like classes, tech
// keywords in the text, repeated classed list items, or a plain list.
func (e *Evaluator) evaluateSkills(doc *goquery.Document, checklist Checklist) {
	section := e.locator.Locate(doc, LabelSkills)
	if !section.Found() {
		checklist.fail("skills_section", "[FAIL] Skills section not found")
		return
	}
	checklist.pass("skills_section", "[PASS] Skills section found (%s)", section.Strategy)

	var highlights []string

	if n := section.Node.Find("svg, i, img").Length(); n > 0 {
		highlights = append(highlights, fmt.Sprintf("%d icon element(s)", n))
	}

	badges := 0
	section.Node.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		if skillBadgeClassRE.MatchString(s.AttrOr("class", "")) {
			badges++
		}
	})
	if badges > 0 {
		highlights = append(highlights, fmt.Sprintf("%d badge-style element(s)", badges))
	}

	text := strings.ToLower(section.Node.Text())
	for _, tech := range e.cfg.TechKeywords {
		if strings.Contains(text, tech) {
			highlights = append(highlights, fmt.Sprintf("technology keyword %q", tech))
			break
		}
	}

	classedItems := 0
	section.Node.Find("li, div, span").Each(func(_ int, s *goquery.Selection) {
		if skillListItemRE.MatchString(s.AttrOr("class", "")) {
			classedItems++
		}
	})
	if classedItems >= 3 {
		highlights = append(highlights, fmt.Sprintf("%d classed skill item(s)", classedItems))
	}

	if section.Node.Find("ul, ol").Length() > 0 {
		highlights = append(highlights, "skill list present")
	}

	if len(highlights) > 0 {
		checklist.pass("skills_highlighted", "[PASS] Skills highlighted: %s", strings.Join(highlights, "; "))
	} else {
		checklist.fail("skills_highlighted", "[FAIL] Skills not visually highlighted")
	}
}
