package domain

import (
	"encoding/json"
	"time"
)

// DefaultUserAgent is sent when a request carries no headers of its own.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36"

// MaxPagesLimit is the upper bound accepted for ScrapeRequest.MaxPages.
const MaxPagesLimit = 10

// Format selects the extraction strategy applied to every fetched page.
type Format string

const (
	FormatText  Format = "text"
	FormatHTML  Format = "html"
	FormatLinks Format = "links"
	FormatJSON  Format = "json"
)

// SupportedFormats lists every format the service can extract.
var SupportedFormats = []Format{FormatText, FormatHTML, FormatLinks, FormatJSON}

// Valid reports whether f is one of SupportedFormats.
func (f Format) Valid() bool {
	for _, s := range SupportedFormats {
		if f == s {
			return true
		}
	}
	return false
}

// PaginationType names how the next page URL is derived.
type PaginationType string

const (
	// PaginationSelector follows the href of the first element matching a selector.
	PaginationSelector PaginationType = "selector"
	// PaginationPattern increments the page=N query parameter.
	PaginationPattern PaginationType = "pattern"
)

// PaginationRule is the optional multi-page policy of a request.
type PaginationRule struct {
	Type     PaginationType `json:"type"`
	Selector string         `json:"selector,omitempty"`
}

// ScrapeRequest is the payload for the API
type ScrapeRequest struct {
	URL        string            `json:"url"`
	Format     Format            `json:"format"`
	Selectors  map[string]string `json:"selectors,omitempty"`
	Pagination *PaginationRule   `json:"pagination,omitempty"`
	MaxPages   int               `json:"max_pages"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Clone returns a deep copy so that the accepted request can't be mutated by the caller.
func (r ScrapeRequest) Clone() ScrapeRequest {
	out := r
	out.Selectors = cloneMap(r.Selectors)
	out.Headers = cloneMap(r.Headers)
	if r.Pagination != nil {
		p := *r.Pagination
		out.Pagination = &p
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Link is one anchor collected by the links format.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// PageResult holds the extracted information from one fetched page.
// Only the payload field matching Format is meaningful.
type PageResult struct {
	URL     string
	Page    int
	Format  Format
	Content string
	HTML    string
	Links   []Link
	Data    map[string]any
}

// MarshalJSON emits url, page and the single payload key of the page's format.
func (p PageResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"url":  p.URL,
		"page": p.Page,
	}
	switch p.Format {
	case FormatText:
		out["content"] = p.Content
	case FormatHTML:
		out["html"] = p.HTML
	case FormatLinks:
		links := p.Links
		if links == nil {
			links = []Link{}
		}
		out["links"] = links
	case FormatJSON:
		data := p.Data
		if data == nil {
			data = map[string]any{}
		}
		out["data"] = data
	}
	return json.Marshal(out)
}

// Result is the ordered, non-empty list of pages produced by a completed task.
type Result struct {
	pages []PageResult
}

// NewResult wraps pages in fetch order.
func NewResult(pages []PageResult) *Result {
	return &Result{pages: append([]PageResult(nil), pages...)}
}

// Pages returns a copy of every page in fetch order.
func (r *Result) Pages() []PageResult {
	return append([]PageResult(nil), r.pages...)
}

// Single returns the only page when exactly one page was fetched.
func (r *Result) Single() (PageResult, bool) {
	if len(r.pages) != 1 {
		return PageResult{}, false
	}
	return r.pages[0], true
}

// Len returns the number of pages.
func (r *Result) Len() int {
	return len(r.pages)
}

// MarshalJSON encodes a one-page result as that page, otherwise as an array.
func (r *Result) MarshalJSON() ([]byte, error) {
	if p, ok := r.Single(); ok {
		return json.Marshal(p)
	}
	pages := r.pages
	if pages == nil {
		pages = []PageResult{}
	}
	return json.Marshal(pages)
}

// TaskSummary is the list view of a task: no result or error payload.
type TaskSummary struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Format      Format     `json:"format"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
