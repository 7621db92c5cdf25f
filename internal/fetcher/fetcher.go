package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"scraper/internal/monitoring"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 10 * time.Second

// FetchError reports a network failure, a timeout or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: HTTP error: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Timeout:
		return fmt.Sprintf("fetch %s: timed out: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves raw page content.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// HTTPFetcher is a Fetcher backed by net/http.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64, m *monitoring.Metrics, l *zap.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		metrics:  m,
		logger:   l,
	}
}

// Fetch issues a GET with the caller's headers and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	f.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		fe := &FetchError{URL: url, Timeout: isTimeout(err), Err: err}
		if fe.Timeout {
			f.metrics.IncFetchErrors("timeout")
		} else {
			f.metrics.IncFetchErrors("network")
		}
		return nil, fe
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.metrics.IncFetchErrors("status")
		f.logger.Debug("non-success response", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		f.metrics.IncFetchErrors("read")
		return nil, &FetchError{URL: url, Timeout: isTimeout(err), Err: fmt.Errorf("failed to read body: %w", err)}
	}

	f.metrics.PagesFetched.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
