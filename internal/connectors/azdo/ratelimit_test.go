package azdo

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(0)
	assert.Equal(t, -1, r.Remaining())
	assert.Equal(t, -1, r.Limit())

	reset := time.Now().Add(time.Minute).Unix()
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "120")
	resp.Header.Set(HeaderRateLimit, "200")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(reset, 10))

	r.UpdateFromResponse(resp)

	assert.Equal(t, 120, r.Remaining())
	assert.Equal(t, 200, r.Limit())
	assert.Equal(t, reset, r.ResetTime().Unix())
	assert.True(t, r.RetryAt().IsZero())
	assert.Zero(t, r.Delay())
}

func TestRateLimiter_Delay(t *testing.T) {
	r := NewRateLimiter(0)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateDelay, "0.5")
	r.UpdateFromResponse(resp)
	assert.Equal(t, 500*time.Millisecond, r.Delay())

	r.UpdateFromResponse(&http.Response{Header: http.Header{}})
	assert.Zero(t, r.Delay())
}

func TestRateLimiter_IgnoresMalformedHeaders(t *testing.T) {
	r := NewRateLimiter(0)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "lots")
	resp.Header.Set(HeaderRetryAfter, "soon")
	resp.Header.Set(HeaderRateDelay, "later")

	r.UpdateFromResponse(resp)
	r.UpdateFromResponse(nil)

	assert.Equal(t, -1, r.Remaining())
	assert.True(t, r.RetryAt().IsZero())
	assert.Zero(t, r.Delay())
}

func TestRateLimiter_WaitHonoursRetryAfter(t *testing.T) {
	r := NewRateLimiter(1000)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "60")
	r.UpdateFromResponse(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitAllowsBurst(t *testing.T) {
	r := NewRateLimiter(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for range ProactiveBurst {
		require.NoError(t, r.Wait(ctx))
	}
}

func TestRateLimiter_WaitHonoursExhaustedQuota(t *testing.T) {
	r := NewRateLimiter(1000)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
	r.UpdateFromResponse(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitIgnoresQuotaWithRemainingOrPastReset(t *testing.T) {
	tests := []struct {
		name      string
		remaining string
		reset     time.Time
	}{
		{name: "quota left", remaining: "5", reset: time.Now().Add(time.Minute)},
		{name: "reset passed", remaining: "0", reset: time.Now().Add(-time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter(1000)
			resp := &http.Response{Header: http.Header{}}
			resp.Header.Set(HeaderRateRemaining, tt.remaining)
			resp.Header.Set(HeaderRateReset, strconv.FormatInt(tt.reset.Unix(), 10))
			r.UpdateFromResponse(resp)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			require.NoError(t, r.Wait(ctx))
		})
	}
}
