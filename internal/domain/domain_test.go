package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	req, err := Normalize(ScrapeRequest{URL: "https://example.com", Format: FormatText})

	require.NoError(t, err)
	assert.Equal(t, 1, req.MaxPages, "should default to 1 page")
	assert.Equal(t, map[string]string{"User-Agent": DefaultUserAgent}, req.Headers)
}

func TestNormalize_KeepsCallerHeaders(t *testing.T) {
	req, err := Normalize(ScrapeRequest{
		URL:     "https://example.com",
		Format:  FormatHTML,
		Headers: map[string]string{"Accept": "text/html"},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Accept": "text/html"}, req.Headers)
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		req   ScrapeRequest
		field string
	}{
		{"missing url", ScrapeRequest{Format: FormatText}, "url"},
		{"relative url", ScrapeRequest{URL: "/list", Format: FormatText}, "url"},
		{"ftp url", ScrapeRequest{URL: "ftp://example.com/file", Format: FormatText}, "url"},
		{"xml format", ScrapeRequest{URL: "https://example.com", Format: "xml"}, "format"},
		{"empty format", ScrapeRequest{URL: "https://example.com"}, "format"},
		{"eleven pages", ScrapeRequest{URL: "https://example.com", Format: FormatText, MaxPages: 11}, "max_pages"},
		{"negative pages", ScrapeRequest{URL: "https://example.com", Format: FormatText, MaxPages: -1}, "max_pages"},
		{"selector rule without selector", ScrapeRequest{
			URL: "https://example.com", Format: FormatText,
			Pagination: &PaginationRule{Type: PaginationSelector},
		}, "pagination.selector"},
		{"unknown rule", ScrapeRequest{
			URL: "https://example.com", Format: FormatText,
			Pagination: &PaginationRule{Type: "infinite"},
		}, "pagination.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNormalize_AcceptsTenPages(t *testing.T) {
	req, err := Normalize(ScrapeRequest{
		URL:        "https://example.com/list",
		Format:     FormatLinks,
		MaxPages:   10,
		Pagination: &PaginationRule{Type: PaginationPattern},
	})

	require.NoError(t, err)
	assert.Equal(t, 10, req.MaxPages)
}

func TestTask_Lifecycle(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	task := NewTask("1", ScrapeRequest{URL: "https://example.com", Format: FormatText}, now)
	assert.Equal(t, StatusPending, task.Status)

	require.NoError(t, task.Start(now.Add(time.Second)))
	assert.Equal(t, StatusProcessing, task.Status)
	require.NotNil(t, task.StartedAt)

	result := NewResult([]PageResult{{URL: "https://example.com", Page: 1, Format: FormatText}})
	require.NoError(t, task.Complete(result, now.Add(2*time.Second)))
	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Empty(t, task.Error)

	assert.ErrorIs(t, task.Start(now), ErrInvalidTransition)
	assert.ErrorIs(t, task.Fail("late", now), ErrInvalidTransition)
	assert.ErrorIs(t, task.Complete(result, now), ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, task.Status, "terminal status must not regress")
}

func TestTask_FailKeepsResultUnset(t *testing.T) {
	now := time.Now()
	task := NewTask("2", ScrapeRequest{URL: "https://example.com", Format: FormatText}, now)
	require.NoError(t, task.Start(now))
	require.NoError(t, task.Fail("HTTP 500", now))

	assert.Equal(t, StatusFailed, task.Status)
	assert.Nil(t, task.Result)
	assert.Equal(t, "HTTP 500", task.Error)
}

func TestTask_CompleteRequiresPages(t *testing.T) {
	task := NewTask("3", ScrapeRequest{}, time.Now())
	require.NoError(t, task.Start(time.Now()))

	assert.Error(t, task.Complete(NewResult(nil), time.Now()))
	assert.Equal(t, StatusProcessing, task.Status)
}

func TestTask_CloneIsIndependent(t *testing.T) {
	task := NewTask("4", ScrapeRequest{
		URL:       "https://example.com",
		Format:    FormatJSON,
		Selectors: map[string]string{"title": "h1"},
	}, time.Now())

	snapshot := task.Clone()
	task.Request.Selectors["title"] = "h2"
	require.NoError(t, task.Start(time.Now()))

	assert.Equal(t, "h1", snapshot.Request.Selectors["title"])
	assert.Equal(t, StatusPending, snapshot.Status)
	assert.Nil(t, snapshot.StartedAt)
}

func TestResult_SinglePageEncodesAsObject(t *testing.T) {
	result := NewResult([]PageResult{{URL: "https://example.com", Page: 1, Format: FormatText, Content: "hello"}})

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com","page":1,"content":"hello"}`, string(raw))
}

func TestResult_ManyPagesEncodeAsArray(t *testing.T) {
	result := NewResult([]PageResult{
		{URL: "https://example.com/?page=1", Page: 1, Format: FormatLinks, Links: []Link{{URL: "https://example.com/a", Text: "A"}}},
		{URL: "https://example.com/?page=2", Page: 2, Format: FormatLinks},
	})

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"url":"https://example.com/?page=1","page":1,"links":[{"url":"https://example.com/a","text":"A"}]},
		{"url":"https://example.com/?page=2","page":2,"links":[]}
	]`, string(raw))
}

func TestPageResult_JSONPayload(t *testing.T) {
	page := PageResult{URL: "https://example.com", Page: 3, Format: FormatJSON, Data: map[string]any{"title": "Hi"}}

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com","page":3,"data":{"title":"Hi"}}`, string(raw))
}
