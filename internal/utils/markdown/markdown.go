// Package markdown converts job-description HTML fragments into cleaned
// markdown suitable for storage.
package markdown

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	reBlank   = regexp.MustCompile(`\n{3,}`)
	reTrailBS = regexp.MustCompile(`\\+\n`)
)

// ConvertDescription converts an HTML fragment to markdown, stripping
// non-content elements first. Returns "" when nothing remains.
func ConvertDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	sel := doc.Find("body")
	sel.Find("script, style, noscript, iframe, svg, button, input, form").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	body, err := sel.Html()
	if err != nil {
		return ""
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}
	return Clean(out)
}

// Clean normalizes whitespace and backslash line-break artifacts left by the
// converter.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strings.ReplaceAll(s, "\r\n", "\n")
	cleaned = reTrailBS.ReplaceAllString(cleaned, "\n")
	cleaned = reBlank.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
