package extractor

import (
	"strings"

	"scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// HTMLStrategy produces serialized markup.
type HTMLStrategy struct{}

func (HTMLStrategy) Extract(doc *goquery.Document, pageURL string, selectors map[string]string) (domain.PageResult, error) {
	page := domain.PageResult{URL: pageURL, Format: domain.FormatHTML}

	if sel, ok := selectors[contentKey]; ok {
		matches, err := Select(doc, sel)
		if err != nil {
			return page, err
		}
		var b strings.Builder
		for i := range matches.Nodes {
			markup, err := goquery.OuterHtml(matches.Eq(i))
			if err != nil {
				return page, err
			}
			b.WriteString(markup)
		}
		page.HTML = b.String()
		return page, nil
	}

	var err error
	if body := doc.Find("body").First(); body.Length() > 0 {
		page.HTML, err = goquery.OuterHtml(body)
	} else {
		page.HTML, err = doc.Html()
	}
	return page, err
}
