// Package document turns fetched markup into a queryable tree.
package document

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Parse builds a goquery document from raw markup. The underlying HTML5
// parser recovers from malformed input the way browsers do.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
