package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/citewatch/internal/cache"
	"github.com/ppiankov/citewatch/internal/model"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

var errTooManyRedirects = fmt.Errorf("stopped after %d redirects", maxRedirects)

const maxRedirects = 3

// Fetcher downloads pages and reduces them to analyzable documents
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithCache stores fetched documents under cache.Key(url)
func WithCache(c cache.Cache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithLimiter replaces the per-host rate limiter
func WithLimiter(l *Limiter) FetcherOption {
	return func(f *Fetcher) { f.limiter = l }
}

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client; the redirect limit is kept
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		client.CheckRedirect = checkRedirect
		f.httpClient = client
	}
}

// NewFetcher creates a fetcher from HTTP settings. Robots checking follows
// cfg.RespectRobots; caching is off unless WithCache is given.
func NewFetcher(cfg model.HTTPConfig, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:       cfg.Timeout,
			CheckRedirect: checkRedirect,
			Transport: &http.Transport{
				Proxy:               ProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   NewLimiter(0, 0),
		cache:     cache.Nop{},
		logger:    zap.NewNop(),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 2_000_000
	}

	for _, opt := range opts {
		opt(f)
	}

	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.UserAgent, f.httpClient)
	}
	return f
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errTooManyRedirects
	}
	return nil
}

// Fetch downloads a page and extracts its readable text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	key := cache.Key(rawURL)

	var cached Document
	if cache.GetJSON(f.cache, key, &cached) {
		f.logger.Debug("Cache hit", zap.String("url", rawURL))
		return &cached, nil
	}

	body, contentType, finalURL, err := f.get(ctx, rawURL, "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Origin:    finalURL,
		FetchedAt: time.Now().UTC(),
	}
	if isHTMLContent(contentType, body) {
		doc.Title, doc.Text = HTMLText(string(body), finalURL)
	} else {
		doc.Text = string(body)
	}

	if err := cache.SetJSON(f.cache, key, doc, f.cacheTTL); err != nil {
		f.logger.Warn("Cache write failed", zap.String("url", rawURL), zap.Error(err))
	}

	f.logger.Info("Fetched page",
		zap.String("url", finalURL),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(body)),
	)
	return doc, nil
}

// get performs a robots-checked, rate-limited GET with a bounded body,
// retrying transient failures
func (f *Fetcher) get(ctx context.Context, rawURL, accept string) ([]byte, string, string, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, "", "", err
		}
		if !allowed {
			return nil, "", "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := fetchRetryBackoff << (attempt - 1)
			f.logger.Debug("Retrying fetch",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			if err := sleepContext(ctx, backoff); err != nil {
				return nil, "", "", err
			}
		}

		// Every attempt, retries included, counts against the host's rate
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, "", "", err
		}

		body, contentType, finalURL, err := f.do(ctx, rawURL, accept)
		if err == nil {
			return body, contentType, finalURL, nil
		}
		lastErr = err

		var transient *transientError
		if !errors.As(err, &transient) {
			break
		}
	}
	return nil, "", "", lastErr
}

const maxAttempts = 3

// fetchRetryBackoff doubles after each failed attempt; tests shorten it
var fetchRetryBackoff = 500 * time.Millisecond

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// transientError marks failures worth retrying (network errors, 429, 5xx)
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (f *Fetcher) do(ctx context.Context, rawURL, accept string) ([]byte, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, errTooManyRedirects) {
			return nil, "", "", fmt.Errorf("fetch: %w", err)
		}
		return nil, "", "", &transientError{fmt.Errorf("fetch: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("unexpected status: %s", resp.Status)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, "", "", &transientError{statusErr}
		}
		return nil, "", "", statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, "", "", fmt.Errorf("read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), resp.Request.URL.String(), nil
}

func isHTMLContent(contentType string, body []byte) bool {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediaType == "text/html" || mediaType == "application/xhtml+xml"
		}
	}
	return strings.Contains(http.DetectContentType(body), "text/html")
}
