package rubric

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minProjects is how many detected cards the rubric requires.
const minProjects = 3

// evaluateProjects covers the nine projects_* parameters. Card-level findings
// aggregate with OR: one card with a deployed link satisfies projects_deployed
// for the whole portfolio.
func (e *Evaluator) evaluateProjects(doc *goquery.Document, checklist Checklist) {
	section := e.locator.Locate(doc, LabelProjects)
	if !section.Found() {
		checklist.fail("projects_section", "[FAIL] Projects section not found")
		return
	}
	checklist.pass("projects_section", "[PASS] Projects section found (%s)", section.Strategy)

	cards := e.extractor.FindCards(section.Node)
	if len(cards) == 0 {
		checklist.fail("projects_minimum", "[FAIL] No project cards detected")
		return
	}

	checklist.set("projects_minimum", len(cards) >= minProjects,
		fmt.Sprintf("[PASS] Found %d project card(s)", len(cards)),
		fmt.Sprintf("[FAIL] Found %d project card(s), need at least %d", len(cards), minProjects))

	agg := struct {
		images, descriptions, github, deployed, tech int
	}{}

	for i, card := range cards {
		pc := e.extractor.AnalyzeCard(card)
		if pc.HasImage {
			agg.images++
		}
		if pc.HasDescription {
			agg.descriptions++
		}
		if pc.HasGitHubLink {
			agg.github++
		}
		if pc.HasDeployedLink {
			agg.deployed++
		}
		if pc.TechStackMentioned {
			agg.tech++
		}
		checklist.fail("projects_samples", "Project %d: %s", i+1, describeCard(pc))
	}

	checklist["projects_samples"].Pass = len(cards) > 0

	n := len(cards)
	checklist.set("projects_hero_image", agg.images > 0,
		fmt.Sprintf("[PASS] %d of %d card(s) have an image", agg.images, n),
		"[FAIL] No project card has a hero image")
	checklist.set("projects_summary", agg.descriptions > 0,
		fmt.Sprintf("[PASS] %d of %d card(s) have a description", agg.descriptions, n),
		"[FAIL] No project card has a substantial description")
	checklist.set("projects_links", agg.github > 0,
		fmt.Sprintf("[PASS] %d of %d card(s) link to a repository", agg.github, n),
		"[FAIL] No project card links to a code repository")
	checklist.set("projects_deployed", agg.deployed > 0,
		fmt.Sprintf("[PASS] %d of %d card(s) link to a deployed app", agg.deployed, n),
		"[FAIL] No project card links to a deployed app")
	checklist.set("projects_tech_stack", agg.tech > 0,
		fmt.Sprintf("[PASS] %d of %d card(s) mention a tech stack", agg.tech, n),
		"[FAIL] No project card mentions its tech stack")

	// Finished means the work is both described and reachable.
	checklist.set("projects_finished", agg.deployed > 0 && agg.descriptions > 0,
		"[PASS] Projects look finished: deployed and described",
		"[FAIL] Projects lack a deployed link or descriptions")
}

// describeCard renders one card's findings as a compact evidence line.
func describeCard(pc ProjectCard) string {
	var parts []string
	if pc.Title != "" {
		title := pc.Title
		if len(title) > 40 {
			title = title[:40] + "..."
		}
		parts = append(parts, fmt.Sprintf("%q", title))
	} else {
		parts = append(parts, "untitled")
	}
	if pc.HasImage {
		parts = append(parts, "image")
	}
	if pc.HasDescription {
		parts = append(parts, "description")
	}
	if pc.HasGitHubLink {
		parts = append(parts, "repo link")
	}
	if pc.HasDeployedLink {
		parts = append(parts, "live link")
	}
	if pc.TechStackMentioned {
		parts = append(parts, "tech stack")
	}
	return strings.Join(parts, ", ")
}
