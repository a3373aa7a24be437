// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest is an HTTP client for the arXivDigest recommender API. It
// lists candidate articles and users, and submits recommendations.
package digest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/internal/httputil"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// DefaultBaseURL is the public arXivDigest API.
const DefaultBaseURL = "https://api.arxivdigest.org"

// Client talks to the arXivDigest API. Every request carries the api-key
// header; throttled requests are retried with backoff.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client configured from cfg.
func New(cfg types.DigestConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		logger:     zerolog.Nop(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	c.logger = c.logger.With().Str("component", "digest").Logger()
	return c
}

// ArticleIDs returns the candidate articles of the current digest.
func (c *Client) ArticleIDs(ctx context.Context) ([]string, error) {
	var resp struct {
		Articles struct {
			ArticleIDs []string `json:"article_ids"`
		} `json:"articles"`
	}
	if err := c.do(ctx, http.MethodGet, "/articles", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Articles.ArticleIDs, nil
}

// UserCount returns the number of users to recommend for.
func (c *Client) UserCount(ctx context.Context) (int, error) {
	var resp struct {
		Users struct {
			Num int `json:"num"`
		} `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Users.Num, nil
}

// UserIDs returns the next page of user IDs starting at offset.
func (c *Client) UserIDs(ctx context.Context, offset int) ([]string, error) {
	var resp struct {
		Users struct {
			UserIDs []ID `json:"user_ids"`
		} `json:"users"`
	}
	q := url.Values{"from": {strconv.Itoa(offset)}}
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, len(resp.Users.UserIDs))
	for i, id := range resp.Users.UserIDs {
		ids[i] = string(id)
	}
	return ids, nil
}

// UserInfo returns the profiles of the given users, keyed by user ID.
func (c *Client) UserInfo(ctx context.Context, userIDs []string) (map[string]types.User, error) {
	var resp struct {
		UserInfo map[string]types.User `json:"user_info"`
	}
	q := url.Values{"ids": {strings.Join(userIDs, ",")}}
	if err := c.do(ctx, http.MethodGet, "/user_info", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.UserInfo, nil
}

// InterleavedArticles returns, per user, the articles already shown in an
// interleaved list.
func (c *Client) InterleavedArticles(ctx context.Context, userIDs []string) (map[string][]string, error) {
	var resp struct {
		Interleaved map[string][]string `json:"interleaved"`
	}
	q := url.Values{"ids": {strings.Join(userIDs, ",")}}
	if err := c.do(ctx, http.MethodGet, "/recommendations/interleaved", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Interleaved, nil
}

// SubmitRecommendations sends recommendations for a batch of users.
func (c *Client) SubmitRecommendations(ctx context.Context, recs types.Recommendations) error {
	body, err := json.Marshal(struct {
		Recommendations types.Recommendations `json:"recommendations"`
	}{recs})
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/recommendations/articles", nil, body, nil)
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body []byte, out any) error {
	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries, c.logRetry(endpoint))
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) logRetry(endpoint string) httputil.RetryHook {
	return func(attempt, status int, backoff time.Duration) {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", status).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("throttled, retrying")
	}
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("arXivDigest %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("arXivDigest %s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// ID is a user ID that the API may encode as a JSON number or string.
type ID string

// UnmarshalJSON accepts 42 and "42".
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user ID %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}
