package rubric

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxReportedLinks bounds how many offending links are named in evidence.
const maxReportedLinks = 5

var tailwindPrefixes = []string{"sm:", "md:", "lg:", "xl:", "2xl:"}

// evaluateTechnical covers the seven cross-cutting parameters that inspect the
// raw HTML and the source URL rather than a located section.
func (e *Evaluator) evaluateTechnical(doc *goquery.Document, rawHTML, sourceURL string, checklist Checklist) {
	e.checkLinks(doc, checklist)
	e.checkExternalLinks(doc, sourceURL, checklist)
	checkResponsive(doc, rawHTML, checklist)
	checkProfessionalURL(sourceURL, checklist)
	checkNavbar(doc, checklist)
	checkDesignIssues(doc, checklist)
	e.checkGrammar(doc, checklist)
}

// checkLinks requires every anchor to carry a usable href. A page with no
// anchors at all offers no evidence either way, so the parameter stays failed
// without comment.
func (e *Evaluator) checkLinks(doc *goquery.Document, checklist Checklist) {
	anchors := doc.Find("a")
	if anchors.Length() == 0 {
		return
	}

	var invalid []string
	anchors.Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "void") {
			label := normalizeText(link.Text())
			if label == "" {
				label = "(no text)"
			}
			invalid = append(invalid, truncate(label, 40))
		}
	})

	if len(invalid) == 0 {
		checklist.pass("links_correct", "[PASS] All %d link(s) have a valid href", anchors.Length())
		return
	}
	checklist.fail("links_correct", "[FAIL] %d link(s) with empty or placeholder href: %s",
		len(invalid), summarizeLinks(invalid))
}

// checkExternalLinks requires target="_blank" on every link leaving the
// portfolio's host. With no external links there is nothing to judge.
func (e *Evaluator) checkExternalLinks(doc *goquery.Document, sourceURL string, checklist Checklist) {
	sourceHost := ""
	if u, err := url.Parse(sourceURL); err == nil {
		sourceHost = u.Host
	}

	external := 0
	var missing []string
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if !strings.HasPrefix(href, "http") {
			return
		}
		u, err := url.Parse(href)
		if err != nil || u.Host == "" || u.Host == sourceHost {
			return
		}
		external++
		if link.AttrOr("target", "") != "_blank" {
			missing = append(missing, truncate(href, 60))
		}
	})

	if external == 0 {
		return
	}
	if len(missing) == 0 {
		checklist.pass("external_links_new_tab", "[PASS] All %d external link(s) open in a new tab", external)
		return
	}
	checklist.fail("external_links_new_tab", "[FAIL] %d of %d external link(s) missing target=\"_blank\": %s",
		len(missing), external, summarizeLinks(missing))
}

func summarizeLinks(links []string) string {
	if len(links) <= maxReportedLinks {
		return strings.Join(links, ", ")
	}
	return fmt.Sprintf("%s ... and %d more",
		strings.Join(links[:maxReportedLinks], ", "), len(links)-maxReportedLinks)
}

// checkResponsive accepts any of the common responsiveness signals: media
// queries or viewport mentions in the markup, a viewport meta tag, or
// Tailwind's responsive prefixes. The prefixes are matched case-sensitively
// because "MD:" is not a Tailwind class.
func checkResponsive(doc *goquery.Document, rawHTML string, checklist Checklist) {
	lower := strings.ToLower(rawHTML)
	var signals []string

	if strings.Contains(lower, "@media") {
		signals = append(signals, "media queries")
	}
	if doc.Find(`meta[name="viewport"]`).Length() > 0 {
		signals = append(signals, "viewport meta tag")
	} else if strings.Contains(lower, "viewport") {
		signals = append(signals, "viewport reference")
	}
	for _, prefix := range tailwindPrefixes {
		if strings.Contains(rawHTML, prefix) {
			signals = append(signals, "responsive utility classes")
			break
		}
	}

	if len(signals) > 0 {
		checklist.pass("responsive_design", "[PASS] Responsive signals: %s", strings.Join(signals, ", "))
	} else {
		checklist.fail("responsive_design", "[FAIL] No responsiveness signals found")
	}
}

// checkProfessionalURL requires https and a non-local host.
func checkProfessionalURL(sourceURL string, checklist Checklist) {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme != "https" {
		checklist.fail("professional_url", "[FAIL] URL does not use https: %s", truncate(sourceURL, 80))
		return
	}
	host := strings.ToLower(u.Host)
	if strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1") {
		checklist.fail("professional_url", "[FAIL] URL points at a local address: %s", host)
		return
	}
	checklist.pass("professional_url", "[PASS] Professional https URL: %s", host)
}

// checkNavbar treats a nav or header element containing at least one anchor as
// single-page navigation.
func checkNavbar(doc *goquery.Document, checklist Checklist) {
	found := false
	doc.Find("nav, header").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find("a").Length() > 0 {
			found = true
			return false
		}
		return true
	})
	checklist.set("single_page_navbar", found,
		"[PASS] Navigation bar with links found",
		"[FAIL] No navigation bar with links found")
}

// checkDesignIssues currently checks image alt coverage. A page without images
// passes vacuously.
func checkDesignIssues(doc *goquery.Document, checklist Checklist) {
	imgs := doc.Find("img")
	missing := 0
	imgs.Each(func(_ int, img *goquery.Selection) {
		if strings.TrimSpace(img.AttrOr("alt", "")) == "" {
			missing++
		}
	})
	checklist.set("no_design_issues", missing == 0,
		fmt.Sprintf("[PASS] All %d image(s) have alt text", imgs.Length()),
		fmt.Sprintf("[WARNING] %d of %d image(s) missing alt text", missing, imgs.Length()))
}

// checkGrammar scans the visible text for a fixed list of common typos,
// matched as whole words.
func (e *Evaluator) checkGrammar(doc *goquery.Document, checklist Checklist) {
	text := strings.ToLower(doc.Text())
	var found []string
	for _, typo := range e.cfg.CommonTypos {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(typo) + `\b`)
		if re.MatchString(text) {
			found = append(found, typo)
		}
	}
	if len(found) == 0 {
		checklist.pass("grammar_checked", "[PASS] No common typos detected")
		return
	}
	checklist.fail("grammar_checked", "[FAIL] Possible typo(s): %s", strings.Join(found, ", "))
}
