// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar is a rate-limited, cached client for the Semantic Scholar
// author and paper endpoints.
package scholar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/internal/cache"
	"github.com/pdiddy/paper-recommender/internal/ratelimit"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// Endpoints are declared as vars so tests can substitute an httptest server.
var (
	publicAPIBase  = "https://api.semanticscholar.org/v1"
	partnerAPIBase = "https://partner.semanticscholar.org/v1"
)

// Client fetches authors and papers. Every network request first takes a
// slot from the rate limiter; responses are cached on disk. A Client is safe
// for concurrent use and must be closed.
type Client struct {
	http      *http.Client
	cache     *cache.Store
	ownsCache bool
	limiter   *ratelimit.Window
	stats     *Stats
	logger    zerolog.Logger

	baseURL   string
	apiKey    string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLimiter shares a rate limiter between clients. Without it each client
// gets its own limiter built from the config.
func WithLimiter(l *ratelimit.Window) Option {
	return func(c *Client) { c.limiter = l }
}

// WithStats shares a Stats between clients.
func WithStats(s *Stats) Option {
	return func(c *Client) { c.stats = s }
}

// WithCache uses an already open response cache. The client does not close it.
func WithCache(s *cache.Store) Option {
	return func(c *Client) { c.cache = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Open returns a client configured from cfg. The partner endpoint is used
// when cfg.APIKey is set, unless cfg.BaseURL overrides it.
func Open(cfg types.ScholarConfig, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()

	c := &Client{
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		baseURL:   cfg.BaseURL,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = publicAPIBase
		if c.apiKey != "" {
			c.baseURL = partnerAPIBase
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	if c.limiter == nil {
		c.limiter = ratelimit.NewWindow(cfg.MaxRequests, cfg.Window)
	}
	if c.stats == nil {
		c.stats = NewStats()
	}
	if c.cache == nil {
		store, err := cache.Open(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("opening response cache: %w", err)
		}
		c.cache = store
		c.ownsCache = true
	}
	c.logger = c.logger.With().Str("component", "scholar").Logger()
	return c, nil
}

// With opens a client, passes it to fn, and closes it on every exit path.
func With(cfg types.ScholarConfig, fn func(*Client) error, opts ...Option) (err error) {
	c, err := Open(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(c)
}

// Close releases the response cache if the client opened it.
func (c *Client) Close() error {
	if c.ownsCache && c.cache != nil {
		err := c.cache.Close()
		c.cache = nil
		return err
	}
	return nil
}

// Stats returns the client's counters.
func (c *Client) Stats() *Stats { return c.stats }

// BaseURL returns the endpoint requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Author fetches an author profile, including the list of their papers.
func (c *Client) Author(ctx context.Context, s2ID string) (*types.Author, error) {
	if s2ID == "" {
		return nil, fmt.Errorf("author lookup without an ID: %w", ErrInvalidArgument)
	}
	var a types.Author
	if err := c.get(ctx, "/author/"+url.PathEscape(s2ID), &a); err != nil {
		return nil, fmt.Errorf("fetching author %s: %w", s2ID, err)
	}
	return &a, nil
}

// Paper fetches paper metadata, including authors and references. Exactly
// one identifier in lookup must be set.
func (c *Client) Paper(ctx context.Context, lookup types.PaperLookup) (*types.Paper, error) {
	if !lookup.Valid() {
		return nil, fmt.Errorf("exactly one type of paper ID must be provided: %w", ErrInvalidArgument)
	}
	id := lookup.String()
	var p types.Paper
	if err := c.get(ctx, "/paper/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("fetching paper %s: %w", id, err)
	}
	return &p, nil
}

// get serves endpoint from the cache, or fetches it under the rate limiter
// and caches the 2xx body. The response is decoded into out.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	reqURL := c.baseURL + endpoint
	key := cache.Key(http.MethodGet, reqURL)

	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", reqURL).Msg("response cache read failed")
	}
	if ok {
		if err := json.Unmarshal(body, out); err == nil {
			c.stats.hit()
			return nil
		}
		c.logger.Warn().Str("url", reqURL).Msg("discarding undecodable cache entry")
	}

	c.stats.miss()
	body, err = c.fetch(ctx, reqURL)
	if err != nil {
		c.stats.fail()
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.stats.fail()
		return fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	if err := c.cache.Put(ctx, key, body); err != nil {
		c.logger.Warn().Err(err).Str("url", reqURL).Msg("response cache write failed")
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	c.logger.Debug().Str("url", reqURL).Int("bytes", len(body)).Msg("fetched")
	return body, nil
}
