package rubric

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy identifies which detection strategy located a section. It is kept
// for diagnostics only and never influences scoring.
type Strategy int

// Locator strategies, in cascade order. Later strategies are progressively
// more speculative, so the first success always wins.
const (
	StrategyNone Strategy = iota
	StrategyExactID
	StrategyExactClass
	StrategyPartialAttr
	StrategyHeadingText
	StrategyDataAttr
	StrategyContent
)

// String returns a short diagnostic name for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyExactID:
		return "exact-id"
	case StrategyExactClass:
		return "exact-class"
	case StrategyPartialAttr:
		return "regex-id-class"
	case StrategyHeadingText:
		return "heading-text"
	case StrategyDataAttr:
		return "data-attribute"
	case StrategyContent:
		return "content-heuristic"
	default:
		return "none"
	}
}

// Section binds a label to the best-matching subtree and the strategy that
// found it. Node is nil when the section is absent, which is a valid outcome.
type Section struct {
	Label    Label
	Node     *goquery.Selection
	Strategy Strategy
}

// Found reports whether a subtree was located for the label.
func (s Section) Found() bool {
	return s.Node != nil && s.Node.Length() > 0
}

// Locator finds the DOM subtree best representing a named section.
type Locator struct {
	keywords map[Label][]string
}

// NewLocator creates a locator for the given section keyword lists.
func NewLocator(keywords map[Label][]string) *Locator {
	return &Locator{keywords: keywords}
}

type locatorStrategy struct {
	strategy Strategy
	find     func(doc *goquery.Document, keywords []string) *goquery.Selection
}

// Locate runs the strategy cascade for one label. The first strategy that
// matches wins; a nil node means the section is absent, never an error.
func (l *Locator) Locate(doc *goquery.Document, label Label) Section {
	keywords := l.keywords[label]
	if doc == nil || len(keywords) == 0 {
		return Section{Label: label}
	}

	cascade := []locatorStrategy{
		{StrategyExactID, findByExactID},
		{StrategyExactClass, findByExactClass},
		{StrategyPartialAttr, findByPartialAttr},
		{StrategyHeadingText, findByHeadingText},
		{StrategyDataAttr, findByDataAttr},
		{StrategyContent, findByContent},
	}

	for _, step := range cascade {
		if node := step.find(doc, keywords); node != nil && node.Length() > 0 {
			return Section{Label: label, Node: node, Strategy: step.strategy}
		}
	}
	return Section{Label: label}
}

func findByExactID(doc *goquery.Document, keywords []string) *goquery.Selection {
	for _, kw := range keywords {
		if sel := doc.Find("#" + kw); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

func findByExactClass(doc *goquery.Document, keywords []string) *goquery.Selection {
	for _, kw := range keywords {
		if sel := doc.Find("." + kw); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// findByPartialAttr matches keywords as case-insensitive substrings of id or
// class attributes, covering names like "about-section" or "aboutMe2".
func findByPartialAttr(doc *goquery.Document, keywords []string) *goquery.Selection {
	for _, kw := range keywords {
		var match *goquery.Selection
		doc.Find("[id], [class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			id := strings.ToLower(s.AttrOr("id", ""))
			class := strings.ToLower(s.AttrOr("class", ""))
			if strings.Contains(id, kw) || strings.Contains(class, kw) {
				match = s
				return false
			}
			return true
		})
		if match != nil {
			return match
		}
	}
	return nil
}

// findByHeadingText matches a heading whose text contains a keyword (or is
// contained by one). The heading's nearest container ancestor is returned when
// its text is meaningfully larger than the heading alone, otherwise picking the
// ancestor would risk treating the whole page as the section.
func findByHeadingText(doc *goquery.Document, keywords []string) *goquery.Selection {
	var match *goquery.Selection
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.ToLower(normalizeText(heading.Text()))
		if text == "" {
			return true
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) || strings.Contains(kw, text) {
				parent := heading.Closest("section, div, article, main")
				if parent.Length() > 0 && len(normalizeText(parent.Text())) > len(text)*2 {
					match = parent
				} else {
					match = heading
				}
				return false
			}
		}
		return true
	})
	return match
}

func findByDataAttr(doc *goquery.Document, keywords []string) *goquery.Selection {
	for _, kw := range keywords {
		if sel := doc.Find(fmt.Sprintf("[data-section=%q]", kw)); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// contentWindow bounds how much leading text the content heuristic inspects,
// so a keyword buried in a footer does not claim the whole container.
const contentWindow = 200

func findByContent(doc *goquery.Document, keywords []string) *goquery.Selection {
	var match *goquery.Selection
	doc.Find("body > section, body > div, body > article").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(normalizeText(s.Text()))
		if len(text) > contentWindow {
			text = text[:contentWindow]
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				match = s
				return false
			}
		}
		return true
	})
	return match
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// normalizeText collapses all whitespace runs to single spaces and trims.
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}
