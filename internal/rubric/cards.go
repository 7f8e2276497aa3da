package rubric

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// maxCards caps how many project cards one section can yield, guarding against
// pathological matches that engulf the whole page.
const maxCards = 10

// minTrustedCards is the threshold below which the next detection stage still
// runs: a single match in unstructured markup is statistically likely to be a
// false positive, so a stage is only trusted once it found two.
const minTrustedCards = 2

// ProjectCard holds the structured fields extracted from one detected card.
type ProjectCard struct {
	Title              string `json:"title,omitempty"`
	HasImage           bool   `json:"has_image"`
	HasDescription     bool   `json:"has_description"`
	HasGitHubLink      bool   `json:"has_github_link"`
	HasDeployedLink    bool   `json:"has_deployed_link"`
	TechStackMentioned bool   `json:"tech_stack_mentioned"`
}

// Extractor recovers repeated project-card structures from a located section.
type Extractor struct {
	classPatterns []*regexp.Regexp
	gridPattern   *regexp.Regexp
	hostingHref   *regexp.Regexp
	ctaText       *regexp.Regexp
	deployDomains []string
	techKeywords  []string
}

// NewExtractor compiles the card detection patterns from cfg.
func NewExtractor(cfg *Config) *Extractor {
	e := &Extractor{
		gridPattern:   regexp.MustCompile(`(?i)` + cfg.GridClassPattern),
		hostingHref:   regexp.MustCompile(`(?i)` + cfg.HostingPattern),
		ctaText:       regexp.MustCompile(`(?i)demo|live|github|view`),
		deployDomains: cfg.DeploymentDomains,
		techKeywords:  cfg.TechKeywords,
	}
	for _, p := range cfg.CardClassPatterns {
		e.classPatterns = append(e.classPatterns, regexp.MustCompile(`(?i)`+p))
	}
	return e
}

// cardSet accumulates accepted cards while tracking node identity, so a card
// accepted by an earlier stage is never re-added by a later one.
type cardSet struct {
	cards []*goquery.Selection
	seen  map[*html.Node]struct{}
}

func newCardSet() *cardSet {
	return &cardSet{seen: make(map[*html.Node]struct{})}
}

func (cs *cardSet) add(s *goquery.Selection) {
	if s == nil || len(s.Nodes) == 0 {
		return
	}
	node := s.Nodes[0]
	if _, ok := cs.seen[node]; ok {
		return
	}
	cs.seen[node] = struct{}{}
	cs.cards = append(cs.cards, s)
}

func (cs *cardSet) contains(s *goquery.Selection) bool {
	if s == nil || len(s.Nodes) == 0 {
		return true
	}
	_, ok := cs.seen[s.Nodes[0]]
	return ok
}

// FindCards runs the detection cascade over a section. Each stage only runs
// while fewer than two cards have been found, and the result is capped at ten.
func (e *Extractor) FindCards(section *goquery.Selection) []*goquery.Selection {
	if section == nil || section.Length() == 0 {
		return nil
	}

	set := newCardSet()
	e.findByClassPattern(section, set)
	if len(set.cards) < minTrustedCards {
		e.findByRepeatedStructure(section, set)
	}
	if len(set.cards) < minTrustedCards {
		e.findByGridChildren(section, set)
	}
	if len(set.cards) < minTrustedCards {
		e.findByHeadingFeatures(section, set)
	}
	if len(set.cards) < minTrustedCards {
		e.findByDeploymentLinks(section, set)
	}

	if len(set.cards) > maxCards {
		return set.cards[:maxCards]
	}
	return set.cards
}

// findByClassPattern accepts containers whose class matches a known card
// pattern, validated by requiring substantial text plus any structural element.
func (e *Extractor) findByClassPattern(section *goquery.Selection, set *cardSet) {
	for _, pattern := range e.classPatterns {
		section.Find("div, article, section, li").Each(func(_ int, s *goquery.Selection) {
			if set.contains(s) {
				return
			}
			if !pattern.MatchString(s.AttrOr("class", "")) {
				return
			}
			if len(normalizeText(s.Text())) <= 15 {
				return
			}
			if hasHeading(s) || hasLink(s) || hasImage(s) {
				set.add(s)
			}
		})
	}
}

// findByRepeatedStructure treats structural repetition as evidence: if two or
// more containers with moderate text and some structure exist, they are
// probably the same kind of thing.
func (e *Extractor) findByRepeatedStructure(section *goquery.Selection, set *cardSet) {
	var candidates []*goquery.Selection
	section.Find("div, article, li").Each(func(_ int, s *goquery.Selection) {
		if set.contains(s) {
			return
		}
		textLen := len(normalizeText(s.Text()))
		if textLen > 20 && textLen < 2000 && (hasImage(s) || hasLink(s) || hasHeading(s)) {
			candidates = append(candidates, s)
		}
	})
	if len(candidates) >= minTrustedCards {
		for _, c := range candidates {
			set.add(c)
		}
	}
}

// findByGridChildren looks inside layout containers: a grid with 2-10 direct
// children that each carry a link and some text is usually a project grid.
func (e *Extractor) findByGridChildren(section *goquery.Selection, set *cardSet) {
	section.Find("div, section").Each(func(_ int, grid *goquery.Selection) {
		if !e.gridPattern.MatchString(grid.AttrOr("class", "")) {
			return
		}
		children := grid.Children()
		if children.Length() < 2 || children.Length() > 10 {
			return
		}
		children.Each(func(_ int, child *goquery.Selection) {
			if set.contains(child) {
				return
			}
			if hasLink(child) && len(normalizeText(child.Text())) > 30 {
				set.add(child)
			}
		})
	})
}

// findByHeadingFeatures walks from each heading up to its container and
// accepts it when the container also carries a project-like feature.
func (e *Extractor) findByHeadingFeatures(section *goquery.Selection, set *cardSet) {
	section.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, heading *goquery.Selection) {
		parent := heading.Closest("div, article, section, li, figure")
		if parent.Length() == 0 || set.contains(parent) {
			return
		}
		textLen := len(normalizeText(parent.Text()))
		if textLen <= 20 || textLen >= 3000 {
			return
		}
		if hasLink(parent) || hasImage(parent) || e.hasCallToAction(parent) {
			set.add(parent)
		}
	})
}

// findByDeploymentLinks is the final fallback for portfolios structured as
// plain link lists: anchors to known hosting domains anchor the card search.
func (e *Extractor) findByDeploymentLinks(section *goquery.Selection, set *cardSet) {
	section.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		if !e.hostingHref.MatchString(link.AttrOr("href", "")) {
			return
		}
		parent := link.Closest("div, li, article, section")
		if parent.Length() == 0 || set.contains(parent) {
			return
		}
		if len(normalizeText(parent.Text())) <= 20 {
			return
		}
		if hasHeading(parent) || hasImage(parent) {
			set.add(parent)
		}
	})
}

func (e *Extractor) hasCallToAction(s *goquery.Selection) bool {
	found := false
	s.Find("button, a").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if e.ctaText.MatchString(el.Text()) {
			found = true
			return false
		}
		return true
	})
	return found
}

// AnalyzeCard extracts the structured per-card fields used by the projects
// checks. All fields default to absent; a card with nothing recognizable is
// still a valid card.
func (e *Extractor) AnalyzeCard(card *goquery.Selection) ProjectCard {
	pc := ProjectCard{
		HasImage:       hasImage(card),
		HasDescription: len(normalizeText(card.Text())) > 50,
	}

	if heading := card.Find("h1, h2, h3, h4, h5, h6").First(); heading.Length() > 0 {
		pc.Title = normalizeText(heading.Text())
	}

	card.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if strings.Contains(href, "github.com") && !strings.Contains(href, "/repos/") {
			pc.HasGitHubLink = true
		}
		for _, domain := range e.deployDomains {
			if strings.Contains(href, domain) {
				pc.HasDeployedLink = true
				break
			}
		}
	})

	text := strings.ToLower(card.Text())
	for _, tech := range e.techKeywords {
		if strings.Contains(text, tech) {
			pc.TechStackMentioned = true
			break
		}
	}
	return pc
}

func hasHeading(s *goquery.Selection) bool {
	return s.Find("h1, h2, h3, h4, h5, h6").Length() > 0
}

func hasLink(s *goquery.Selection) bool {
	return s.Find("a[href]").Length() > 0
}

func hasImage(s *goquery.Selection) bool {
	return s.Find("img").Length() > 0
}
