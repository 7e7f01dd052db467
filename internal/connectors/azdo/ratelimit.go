package azdo

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the default proactive throttle in requests per second.
	ProactiveRate = 10.0

	// ProactiveBurst lets a full enrichment batch start without waiting.
	ProactiveBurst = 5

	// HeaderRateLimit is the resource limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining usage header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRateDelay is the delay the service applied to the request
	// (fractional seconds).
	HeaderRateDelay = "X-RateLimit-Delay"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles calls to Azure DevOps.
//
// A token bucket spaces requests proactively. Retry-After from a throttled
// response, or an exhausted X-RateLimit-Remaining, blocks subsequent
// requests until the indicated time.
type RateLimiter struct {
	mu         sync.Mutex
	remaining  int           // From API header, -1 if unknown
	limit      int           // From API header, -1 if unknown
	resetTime  time.Time     // From API header
	delay      time.Duration // From API header
	retryAfter time.Time     // From Retry-After
	bucket     *rate.Limiter
}

// NewRateLimiter creates a rate limiter allowing rps requests per second.
// A non-positive rps uses ProactiveRate.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = ProactiveRate
	}
	return &RateLimiter{
		remaining: -1,
		limit:     -1,
		bucket:    rate.NewLimiter(rate.Limit(rps), ProactiveBurst),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	retryAfter := r.retryAfter
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if err := sleepUntil(ctx, retryAfter); err != nil {
		return err
	}

	if remaining == 0 {
		return sleepUntil(ctx, resetTime)
	}
	return nil
}

// sleepUntil blocks until t or until ctx is done. A past t returns at once.
func sleepUntil(ctx context.Context, t time.Time) error {
	if !time.Now().Before(t) {
		return nil
	}

	timer := time.NewTimer(time.Until(t))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}

	r.delay = 0
	if delay := resp.Header.Get(HeaderRateDelay); delay != "" {
		if val, err := strconv.ParseFloat(delay, 64); err == nil && val > 0 {
			r.delay = time.Duration(val * float64(time.Second))
		}
	}

	if retry := resp.Header.Get(HeaderRetryAfter); retry != "" {
		if seconds, err := strconv.Atoi(retry); err == nil && seconds > 0 {
			r.retryAfter = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}
}

// RetryAt returns when a throttled caller may try again, zero if not throttled.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Now().After(r.retryAfter) {
		return time.Time{}
	}
	return r.retryAfter
}

// Remaining returns the remaining usage reported by the service, -1 if unknown.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the limit reported by the service, -1 if unknown.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the reported reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}

// Delay returns the throttling delay the service applied to the last
// response, zero if none.
func (r *RateLimiter) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay
}
