package pagination

import (
	"strings"

	"scraper/internal/domain"
	"scraper/internal/extractor"
	"scraper/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// Next computes the URL of the page after currentURL. The boolean is false
// when the rule yields no further page.
func Next(doc *goquery.Document, currentURL string, rule domain.PaginationRule) (string, bool, error) {
	switch rule.Type {
	case domain.PaginationSelector:
		matches, err := extractor.Select(doc, rule.Selector)
		if err != nil {
			return "", false, err
		}
		href, ok := matches.First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return "", false, nil
		}
		return utils.ResolveHref(currentURL, href), true, nil
	case domain.PaginationPattern:
		return utils.IncrementPageParam(currentURL), true, nil
	default:
		return "", false, nil
	}
}
