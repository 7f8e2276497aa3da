// Package rubric implements the deterministic portfolio grading engine: a
// section locator, a project-card extractor, and a fixed checklist of rubric
// parameters evaluated over fetched HTML.
package rubric

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Evaluator runs the full rubric over one HTML document. It holds only
// immutable configuration, so a single instance is safe for concurrent use.
type Evaluator struct {
	cfg       *Config
	locator   *Locator
	extractor *Extractor
}

// NewEvaluator creates an evaluator; a nil config selects DefaultConfig.
func NewEvaluator(cfg *Config) *Evaluator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Evaluator{
		cfg:       cfg,
		locator:   NewLocator(cfg.SectionKeywords),
		extractor: NewExtractor(cfg),
	}
}

// Evaluate grades htmlContent against the fixed checklist schema. It is a pure
// function of its inputs: identical HTML and URL always produce an identical
// checklist. Malformed markup is the normal case, so no pass may propagate a
// failure; a pass that panics is converted into its failed-but-present keys.
func (e *Evaluator) Evaluate(htmlContent, sourceURL string) Checklist {
	checklist := NewChecklist()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		// The html parser is forgiving enough that this only happens on
		// reader failures; every key stays failed.
		return checklist
	}

	passes := []struct {
		name string
		run  func(*goquery.Document, Checklist)
	}{
		{"about", e.evaluateAbout},
		{"projects", e.evaluateProjects},
		{"skills", e.evaluateSkills},
		{"contact", e.evaluateContact},
		{"technical", func(d *goquery.Document, c Checklist) {
			e.evaluateTechnical(d, htmlContent, sourceURL, c)
		}},
	}

	for _, pass := range passes {
		runPass(pass.name, doc, checklist, pass.run)
	}
	return checklist
}

// runPass isolates one evaluation pass: a panic while reading unexpected
// markup leaves that pass's keys failed instead of aborting the evaluation.
func runPass(name string, doc *goquery.Document, checklist Checklist, fn func(*goquery.Document, Checklist)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[rubric] %s pass recovered: %v", name, r)
		}
	}()
	fn(doc, checklist)
}

// Sections locates all four sections for diagnostics without running the full
// rubric.
func (e *Evaluator) Sections(doc *goquery.Document) []Section {
	sections := make([]Section, 0, len(AllLabels()))
	for _, label := range AllLabels() {
		sections = append(sections, e.locator.Locate(doc, label))
	}
	return sections
}
