package extractor

import (
	"encoding/json"
	"strings"

	"scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const ldJSONSelector = `script[type="application/ld+json"]`

// JSONStrategy produces a key/value mapping, either from named selectors or
// from the page's embedded JSON-LD block.
type JSONStrategy struct{}

func (JSONStrategy) Extract(doc *goquery.Document, pageURL string, selectors map[string]string) (domain.PageResult, error) {
	page := domain.PageResult{URL: pageURL, Format: domain.FormatJSON, Data: map[string]any{}}

	if len(selectors) > 0 {
		for name, sel := range selectors {
			matches, err := Select(doc, sel)
			if err != nil {
				return page, err
			}
			texts := make([]string, 0, matches.Length())
			matches.Each(func(_ int, s *goquery.Selection) {
				texts = append(texts, strings.TrimSpace(s.Text()))
			})
			if len(texts) == 1 {
				page.Data[name] = texts[0]
			} else {
				page.Data[name] = texts
			}
		}
		return page, nil
	}

	script := doc.Find(ldJSONSelector).First()
	if script.Length() == 0 {
		return page, nil
	}
	page.Data = parseLDJSON(script.Text())
	return page, nil
}

// parseLDJSON never fails: a malformed block becomes an error payload.
func parseLDJSON(raw string) map[string]any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return map[string]any{
			"error": "failed to parse JSON-LD: " + err.Error(),
			"raw":   strings.TrimSpace(raw),
		}
	}
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		return map[string]any{"@graph": t}
	default:
		return map[string]any{"value": t}
	}
}
