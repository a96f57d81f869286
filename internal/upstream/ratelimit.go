package upstream

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const lowRemainingThreshold = 5

type limitState struct {
	remaining int
	resetAt   time.Time
}

// RateLimitTracker records per-endpoint rate-limit state from the platform's
// x-rate-limit-* response headers. State is process-local and advisory.
type RateLimitTracker struct {
	mu     sync.Mutex
	limits map[string]limitState
	logger *zap.Logger
	now    func() time.Time
}

func NewRateLimitTracker(logger *zap.Logger) *RateLimitTracker {
	return &RateLimitTracker{
		limits: make(map[string]limitState),
		logger: logger,
		now:    time.Now,
	}
}

func (t *RateLimitTracker) UpdateFromHeaders(endpoint string, headers http.Header) {
	remaining := headers.Get("x-rate-limit-remaining")
	reset := headers.Get("x-rate-limit-reset")
	if remaining == "" || reset == "" {
		return
	}

	remainingNum, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return
	}

	t.mu.Lock()
	t.limits[endpoint] = limitState{
		remaining: remainingNum,
		resetAt:   time.Unix(resetUnix, 0),
	}
	t.mu.Unlock()

	if remainingNum <= lowRemainingThreshold {
		t.logger.Warn("rate limit running low",
			zap.String("endpoint", endpoint),
			zap.Int("remaining", remainingNum),
			zap.Time("reset_at", time.Unix(resetUnix, 0)))
	}
}

// WaitTime returns how long the caller should wait before hitting endpoint,
// or zero when a request is allowed. Unknown endpoints are always allowed.
func (t *RateLimitTracker) WaitTime(endpoint string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	limit, ok := t.limits[endpoint]
	if !ok || limit.remaining > 0 {
		return 0
	}

	wait := limit.resetAt.Sub(t.now())
	if wait <= 0 {
		// Reset time has passed, drop the stale state.
		delete(t.limits, endpoint)
		return 0
	}

	t.logger.Warn("rate limit exhausted",
		zap.String("endpoint", endpoint),
		zap.Duration("wait", wait))
	return wait
}

func (t *RateLimitTracker) Remaining(endpoint string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	limit, ok := t.limits[endpoint]
	return limit.remaining, ok
}
