// Package extractor converts a parsed page into a PageResult payload.
// There is one Strategy per domain.Format.
package extractor

import (
	"errors"
	"fmt"

	"scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	ErrInvalidSelector   = errors.New("invalid selector")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// contentKey is the selector name used by the text and html formats.
const contentKey = "content"

// Strategy extracts one page's payload from a parsed document.
type Strategy interface {
	Extract(doc *goquery.Document, pageURL string, selectors map[string]string) (domain.PageResult, error)
}

var strategies = map[domain.Format]Strategy{
	domain.FormatText:  TextStrategy{},
	domain.FormatHTML:  HTMLStrategy{},
	domain.FormatLinks: LinksStrategy{},
	domain.FormatJSON:  JSONStrategy{},
}

// ForFormat returns the strategy registered for f.
func ForFormat(f domain.Format) (Strategy, error) {
	s, ok := strategies[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return s, nil
}

// Select runs a CSS selector against doc. Unlike goquery's Find, a malformed
// expression is reported instead of silently matching nothing.
func Select(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return doc.FindMatcher(m), nil
}
