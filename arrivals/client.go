package arrivals

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	userAgent           = "busboard/1.0"
	maxResponseBodySize = 4 << 20 // 4 MiB guard
	maxExcerpt          = 256
)

// NewHTTPClient returns a client with transparent gzip and the given timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: gzhttp.Transport(http.DefaultTransport),
	}
}

// NewLimiter allows perSecond requests per second with a matching burst.
// It returns nil (no limiting) when perSecond is not positive.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Excerpt returns the start of the body for log lines.
func (r *Response) Excerpt() string {
	s := strings.TrimSpace(string(r.Body))
	if len(s) <= maxExcerpt {
		return s
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// HTTPFetcher issues rate-limited GET requests and reads the whole body.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher wraps client and limiter. A nil client gets NewHTTPClient(DefaultTimeout);
// a nil limiter disables rate limiting.
func NewHTTPFetcher(client *http.Client, limiter *rate.Limiter) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &HTTPFetcher{client: client, limiter: limiter}
}

// Get performs one GET. Any status code is returned as a Response. Failures to obtain
// one are *NetworkError; a body larger than 4 MiB is a *ParseError.
func (f *HTTPFetcher) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize+1))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if len(body) > maxResponseBodySize {
		return nil, &ParseError{What: "response body", Err: fmt.Errorf("larger than %d bytes", maxResponseBodySize)}
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
