package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookshare/internal/book"

	"golang.org/x/time/rate"
)

// HTTPSource fetches the catalog JSON from a URL, retrying transient
// failures with exponential backoff.
type HTTPSource struct {
	httpClient *http.Client
	url        string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewHTTPSource(url, userAgent string, rps int, maxRetries int) *HTTPSource {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Every(time.Second / time.Duration(rps))
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		url:        url,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

func (s *HTTPSource) String() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]book.Book, error) {
	var lastErr error
	for i := 0; i <= s.maxRetries; i++ {
		if i > 0 {
			// 1s, 2s, 4s...
			backoff := s.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		books, retry, err := s.fetchOnce(ctx)
		if err == nil {
			return books, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", s.maxRetries+1, lastErr)
}

func (s *HTTPSource) fetchOnce(ctx context.Context) (books []book.Book, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("%w: unexpected status code: %d", ErrUnavailable, resp.StatusCode)
	}

	books, err = Decode(resp.Body)
	return books, false, err
}
