package extractor

import (
	"strings"

	"scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// hiddenElements never contribute to the visible text of a page.
const hiddenElements = "script, style, header, footer, nav"

// TextStrategy produces plain text.
type TextStrategy struct{}

func (TextStrategy) Extract(doc *goquery.Document, pageURL string, selectors map[string]string) (domain.PageResult, error) {
	page := domain.PageResult{URL: pageURL, Format: domain.FormatText}

	if sel, ok := selectors[contentKey]; ok {
		matches, err := Select(doc, sel)
		if err != nil {
			return page, err
		}
		parts := make([]string, 0, matches.Length())
		matches.Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, strings.TrimSpace(s.Text()))
		})
		page.Content = strings.Join(parts, "\n")
		return page, nil
	}

	clone := goquery.CloneDocument(doc)
	clone.Find(hiddenElements).Remove()

	var lines []string
	for _, n := range clone.Nodes {
		lines = collectText(n, lines)
	}
	page.Content = strings.Join(lines, "\n")
	return page, nil
}

func collectText(n *html.Node, lines []string) []string {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			lines = append(lines, t)
		}
		return lines
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		lines = collectText(c, lines)
	}
	return lines
}
