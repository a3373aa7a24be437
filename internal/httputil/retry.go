// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttled responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

// DefaultMaxRetries is used when DoWithRetry is given a non-positive limit.
const DefaultMaxRetries = 5

// Retryable reports whether a response with the given status should be
// retried: 429 (Too Many Requests) and 503 (Service Unavailable).
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// RetryHook is called before each backoff wait with the 1-based attempt
// number, the status that triggered the retry and the wait duration.
type RetryHook func(attempt, status int, backoff time.Duration)

// DoWithRetry executes an HTTP request and retries Retryable responses with
// exponential backoff. The delay starts at RetryBaseDelay (10 s) and doubles
// each attempt; a Retry-After header given in seconds takes precedence.
//
// When maxRetries is 0 the default (5) is used. Requests with a body are
// replayed through req.GetBody, so use http.NewRequest with a bytes or
// strings reader. On each retry the response body is drained and closed
// before sleeping. If the context is cancelled during a backoff wait the
// function returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, hooks ...RetryHook) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		backoff := backoffFor(resp, attempt)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		for _, hook := range hooks {
			hook(attempt+1, resp.StatusCode, backoff)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func backoffFor(resp *http.Response, attempt int) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
