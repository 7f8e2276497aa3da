package rubric

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// evaluateAbout covers the five about_* parameters.
func (e *Evaluator) evaluateAbout(doc *goquery.Document, checklist Checklist) {
	section := e.locator.Locate(doc, LabelAbout)
	if !section.Found() {
		checklist.fail("about_section", "[FAIL] About section not found")
		return
	}
	checklist.pass("about_section", "[PASS] About section found (%s)", section.Strategy)

	e.checkName(doc, checklist)
	e.checkPhoto(doc, section, checklist)
	e.checkIntro(doc, section, checklist)
}

// checkName looks for an h1/h2 whose text reads like a person's name:
// 2-4 whitespace-separated words, each starting uppercase.
func (e *Evaluator) checkName(doc *goquery.Document, checklist Checklist) {
	found := false
	doc.Find("h1, h2").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := normalizeText(heading.Text())
		if looksLikeName(text) {
			checklist.pass("about_name", "[PASS] Name found: %s", text)
			found = true
			return false
		}
		return true
	})
	if !found {
		checklist.fail("about_name", "[FAIL] Name not clearly displayed")
	}
}

func looksLikeName(text string) bool {
	words := strings.Fields(text)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// scoredImage pairs an image with its profile-photo likelihood score.
type scoredImage struct {
	score int
	img   *goquery.Selection
	order int
}

var heroContainerRE = regexp.MustCompile(`(?i)header|hero|main|banner|intro|top`)

// checkPhoto runs the scored-candidate search for a profile photo and marks
// about_photo and about_professional_photo.
func (e *Evaluator) checkPhoto(doc *goquery.Document, section Section, checklist Checklist) {
	candidates, searchedWholePage := e.profileCandidates(doc, section)
	best := pickBestCandidate(candidates)

	if best == nil {
		location := "priority sections"
		if searchedWholePage {
			location = "entire page"
		}
		checklist.fail("about_photo", "[FAIL] No photo found (searched %s)", location)
		return
	}

	src := best.AttrOr("src", "")
	if len(src) > 80 {
		src = src[:80] + "..."
	}
	checklist.pass("about_photo", "[PASS] Photo found: %s", src)

	alt := strings.ToLower(best.AttrOr("alt", ""))
	switch {
	case containsAny(alt, []string{"profile", "photo", "picture", "portrait", "avatar", "headshot"}):
		checklist.pass("about_professional_photo", "[PASS] Professional photo alt text detected")
	case len(alt) > 3:
		checklist.pass("about_professional_photo", "[PASS] Profile image found with description")
	default:
		checklist.fail("about_professional_photo", "[WARNING] Photo alt text could be more descriptive")
	}
}

// profileCandidates scores every image in priority order: the about section
// and header/hero containers first, then the whole page if those had none.
func (e *Evaluator) profileCandidates(doc *goquery.Document, section Section) ([]scoredImage, bool) {
	var imgs []*goquery.Selection
	collect := func(s *goquery.Selection) {
		s.Find("img").Each(func(_ int, img *goquery.Selection) {
			imgs = append(imgs, img)
		})
	}

	if section.Found() {
		collect(section.Node)
	}
	doc.Find("header, section, div").Each(func(_ int, s *goquery.Selection) {
		if heroContainerRE.MatchString(s.AttrOr("class", "")) || heroContainerRE.MatchString(s.AttrOr("id", "")) {
			collect(s)
		}
	})

	searchedWholePage := false
	if len(imgs) == 0 {
		searchedWholePage = true
		collect(doc.Selection)
	}

	candidates := make([]scoredImage, 0, len(imgs))
	for i, img := range imgs {
		candidates = append(candidates, scoredImage{
			score: e.scoreProfileImage(img),
			img:   img,
			order: i,
		})
	}
	return candidates, searchedWholePage
}

// scoreProfileImage applies the point system from the rubric: alt and src
// wording, ancestor class hints, and penalties for decorative or
// project-screenshot imagery.
func (e *Evaluator) scoreProfileImage(img *goquery.Selection) int {
	alt := strings.ToLower(img.AttrOr("alt", ""))
	src := strings.ToLower(img.AttrOr("src", ""))
	score := 0

	if containsAny(alt, e.cfg.ProfileAltWords) {
		score += 3
	}
	if containsAny(src, e.cfg.ProfileSrcWords) {
		score += 2
	}
	if len(alt) > 3 {
		score++
	}

	parent := img.Closest("div, figure, section")
	if parent.Length() > 0 {
		parentClass := strings.ToLower(parent.AttrOr("class", ""))
		if containsAny(parentClass, e.cfg.ProfileParentWords) {
			score += 2
		}
	}

	if containsAny(alt+src, e.cfg.DecorativeWords) {
		score -= 3
	}
	if containsAny(alt+src, e.cfg.ProjectImageWords) {
		score--
	}
	return score
}

// pickBestCandidate accepts the highest-scoring image when its score clears
// the lenient threshold, else falls back to the first plausible image.
func pickBestCandidate(candidates []scoredImage) *goquery.Selection {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]scoredImage, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].score > sorted[j].score })

	if sorted[0].score > -1 {
		return sorted[0].img
	}

	limit := min(3, len(sorted))
	for _, cand := range sorted[:limit] {
		src := strings.ToLower(cand.img.AttrOr("src", ""))
		if !containsAny(src, []string{"project-screenshot", "work-sample", "case-study-img"}) {
			return cand.img
		}
	}
	return candidates[0].img
}

// ProfileImageSrc returns the src of the most likely profile photo, for the
// photo-validation capability. Empty when the page has no plausible candidate.
func (e *Evaluator) ProfileImageSrc(doc *goquery.Document) string {
	section := e.locator.Locate(doc, LabelAbout)
	candidates, _ := e.profileCandidates(doc, section)
	best := pickBestCandidate(candidates)
	if best == nil {
		return ""
	}
	return best.AttrOr("src", "")
}

// checkIntro requires a substantial paragraph, preferring the about section
// and falling back to the whole page when the section holds none.
func (e *Evaluator) checkIntro(doc *goquery.Document, section Section, checklist Checklist) {
	paragraphs := section.Node.Find("p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	found := false
	paragraphs.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := normalizeText(p.Text())
		if len(text) > 50 {
			preview := text
			if len(preview) > 80 {
				preview = preview[:80] + "..."
			}
			checklist.pass("about_intro", "[PASS] Introduction: %s", preview)
			found = true
			return false
		}
		return true
	})
	if !found {
		checklist.fail("about_intro", "[FAIL] No substantial introduction paragraph found")
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
