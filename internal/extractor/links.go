package extractor

import (
	"strings"

	"scraper/internal/domain"
	"scraper/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// LinksStrategy collects every anchor that carries an href.
type LinksStrategy struct{}

func (LinksStrategy) Extract(doc *goquery.Document, pageURL string, _ map[string]string) (domain.PageResult, error) {
	page := domain.PageResult{URL: pageURL, Format: domain.FormatLinks, Links: []domain.Link{}}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		page.Links = append(page.Links, domain.Link{
			URL:  utils.ResolveHref(pageURL, href),
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return page, nil
}
