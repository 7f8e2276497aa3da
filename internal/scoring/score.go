// Package scoring reduces a rubric checklist into a 0-100 score, a weighted
// category breakdown, and learning-resource suggestions.
package scoring

import (
	"math"

	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// Score is the canonical unweighted pass ratio, rounded to the nearest
// integer. Every checklist key counts equally.
func Score(checklist rubric.Checklist) int {
	total := len(rubric.Keys)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(checklist.Passed()) / float64(total)))
}

// category groups checklist keys under one weighted rubric category.
type category struct {
	name   string
	weight int
	keys   []string
}

// categories is the weighted breakdown used by the detailed report. A category
// earns its full weight only when every key in it passed. Weights sum to 100.
var categories = []category{
	{"sections", 15, []string{"about_section", "projects_section", "skills_section", "contact_section"}},
	{"about", 10, []string{"about_name", "about_photo", "about_intro", "about_professional_photo"}},
	{"projects", 20, []string{
		"projects_minimum", "projects_samples", "projects_deployed", "projects_links",
		"projects_finished", "projects_summary", "projects_hero_image", "projects_tech_stack",
	}},
	{"skills", 10, []string{"skills_highlighted"}},
	{"contact", 10, []string{"contact_linkedin", "contact_github"}},
	{"links", 5, []string{"links_correct"}},
	{"responsiveness", 10, []string{"responsive_design"}},
	{"url", 5, []string{"professional_url"}},
	{"design", 10, []string{"no_design_issues", "grammar_checked", "single_page_navbar"}},
	{"external-links", 5, []string{"external_links_new_tab"}},
}

// Categories produces the weighted per-category breakdown, in fixed order.
func Categories(checklist rubric.Checklist) []types.ScoredCategory {
	out := make([]types.ScoredCategory, 0, len(categories))
	for _, cat := range categories {
		sc := types.ScoredCategory{Name: cat.name, Weight: cat.weight, Total: len(cat.keys)}
		for _, key := range cat.keys {
			if item, ok := checklist[key]; ok && item != nil && item.Pass {
				sc.Passed++
			}
		}
		if sc.Passed == sc.Total {
			sc.Earned = sc.Weight
		}
		out = append(out, sc)
	}
	return out
}

// WeightedScore sums the earned category weights, for the detailed report.
func WeightedScore(checklist rubric.Checklist) int {
	total := 0
	for _, sc := range Categories(checklist) {
		total += sc.Earned
	}
	return total
}
