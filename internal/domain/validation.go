package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError rejects a request before any task is created.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalize validates req and fills in defaults (max pages, headers).
func Normalize(req ScrapeRequest) (ScrapeRequest, error) {
	req = req.Clone()

	if strings.TrimSpace(req.URL) == "" {
		return req, &ValidationError{Field: "url", Message: "URL is required"}
	}
	u, err := url.ParseRequestURI(req.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return req, &ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	if !req.Format.Valid() {
		return req, &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, expected one of %v", req.Format, SupportedFormats),
		}
	}

	if req.MaxPages == 0 {
		req.MaxPages = 1
	}
	if req.MaxPages < 1 || req.MaxPages > MaxPagesLimit {
		return req, &ValidationError{
			Field:   "max_pages",
			Message: fmt.Sprintf("must be between 1 and %d", MaxPagesLimit),
		}
	}

	if p := req.Pagination; p != nil {
		switch p.Type {
		case PaginationSelector:
			if strings.TrimSpace(p.Selector) == "" {
				return req, &ValidationError{Field: "pagination.selector", Message: "selector rule requires a selector"}
			}
		case PaginationPattern:
		default:
			return req, &ValidationError{
				Field:   "pagination.type",
				Message: fmt.Sprintf("unknown pagination type %q", p.Type),
			}
		}
	}

	if len(req.Headers) == 0 {
		req.Headers = map[string]string{"User-Agent": DefaultUserAgent}
	}
	return req, nil
}
