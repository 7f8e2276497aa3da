// Package fetch - spa.go detects JavaScript-only pages that need rendering.
package fetch

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// spaHTMLThreshold is the raw-HTML length under which a page with framework
// mount points is assumed to be client-rendered.
const spaHTMLThreshold = 3000

// minBodyText is how much visible text a server-rendered page is expected to
// carry. Less than this means there is nothing to grade yet.
const minBodyText = 100

// spaMountRE matches the mount-point ids used by the major frontend frameworks.
var spaMountRE = regexp.MustCompile(`id=["'](root|app|__next|___gatsby)["']`)

// LooksLikeSPA reports whether the fetched HTML is a JavaScript shell rather
// than rendered content: a short document carrying a framework mount point, or
// a body with almost no visible text.
func LooksLikeSPA(htmlContent string) bool {
	trimmed := strings.TrimSpace(htmlContent)
	if trimmed == "" {
		return true
	}

	if len(trimmed) < spaHTMLThreshold && spaMountRE.MatchString(trimmed) {
		return true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return false
	}
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(body.Text()), " ")
	return len(text) < minBodyText
}
