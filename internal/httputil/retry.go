// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil wraps outbound API calls with rate limiting and
// retry on HTTP 429.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// Client executes HTTP requests through a token-bucket rate limiter and
// retries rate-limited responses with exponential backoff.
type Client struct {
	HTTP       *http.Client
	Limiter    *rate.Limiter
	MaxRetries int
}

// NewClient builds a Client with the given per-request timeout and a
// sustained rate of requestsPerMinute (unlimited when <= 0).
func NewClient(timeout time.Duration, requestsPerMinute float64, maxRetries int) *Client {
	c := &Client{
		HTTP:       &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
	}
	if requestsPerMinute > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60), 1)
	}
	return c
}

// Do waits for a rate-limiter token, executes the request, and retries
// on HTTP 429 with exponential backoff (base RetryBaseDelay, doubling
// per attempt). On each 429 the body is drained and closed before
// sleeping. A cancelled context during a wait returns ctx.Err(). After
// exhausting retries the last 429 response is returned so the caller
// can inspect it.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := httpClient.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
