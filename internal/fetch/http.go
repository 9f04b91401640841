package fetch

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the HTTP fetcher.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// PerHostRate is the request rate applied to each host. Zero
	// disables rate limiting.
	PerHostRate rate.Limit
	MaxBodySize int64
}

// HTTPFetcher implements Fetcher using net/http with retry and
// per-host rate limiting.
type HTTPFetcher struct {
	client *http.Client
	opts   Options

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTP creates an HTTPFetcher with the given options.
func NewHTTP(opts Options) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = "recipe-cli/1.0 (+https://github.com/forkful/recipe-cli)"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodySize == 0 {
		opts.MaxBodySize = 8 << 20
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves the URL and parses the body into a document. Retries
// transient failures (network errors, 429, 5xx) with jittered backoff
// up to MaxRetries; a timeout or cancellation is surfaced, not retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, eris.Errorf("fetch: invalid url: %s", rawURL)
	}

	if limiter := f.limiterFor(u.Host); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetch: rate limit wait")
		}
	}

	var lastErr error
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			backoff += time.Duration(rand.Int64N(int64(time.Second)))
			select {
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "fetch: canceled")
			case <-time.After(backoff):
			}
		}

		body, retryable, err := f.doRequest(ctx, rawURL)
		if err == nil {
			doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(body))
			if parseErr != nil {
				// Keep the raw body; regex-driven strategies can still run.
				zap.L().Debug("fetch: document parse failed",
					zap.String("url", rawURL),
					zap.Error(parseErr),
				)
				doc = nil
			}
			return &Page{URL: rawURL, Body: body, Doc: doc}, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		zap.L().Debug("fetch: retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, eris.Wrapf(lastErr, "fetch: %s", rawURL)
}

func (f *HTTPFetcher) doRequest(ctx context.Context, rawURL string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, eris.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", true, eris.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, eris.Errorf("status %d", resp.StatusCode)
	default:
		return "", false, eris.Errorf("status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodySize))
	if err != nil {
		return "", true, eris.Wrap(err, "read body")
	}
	return string(raw), false, nil
}

func (f *HTTPFetcher) limiterFor(host string) *rate.Limiter {
	if f.opts.PerHostRate <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	limiter, ok := f.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(f.opts.PerHostRate, 1)
		f.limiters[host] = limiter
	}
	return limiter
}
