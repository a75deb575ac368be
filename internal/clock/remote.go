package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single remote time lookup
	DefaultTimeout = 3 * time.Second
	// DefaultCacheTTL is how long a lookup result, or a failed lookup, is reused
	DefaultCacheTTL = 10 * time.Minute
)

// Remote asks an HTTP time service for the current time and falls back to
// another clock on any failure. Failures are logged, never returned. The
// offset to the local clock is reused for ttl, so callers do not pay a round
// trip on every call.
type Remote struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	ttl      time.Duration
	fallback Clock
	logger   *zap.Logger

	mu        sync.Mutex
	checkedAt time.Time
	offset    time.Duration
	loc       *time.Location
	fellBack  bool
	// local is the monotonic clock used to age the cache
	local func() time.Time
}

// timePayload accepts both the worldtimeapi style and a plain unix timestamp
type timePayload struct {
	DateTime string `json:"datetime"`
	UnixTime *int64 `json:"unixtime"`
}

// NewRemote creates a remote clock that queries url with the given timeout
func NewRemote(url string, timeout time.Duration, logger *zap.Logger) *Remote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
		ttl:      DefaultCacheTTL,
		fallback: System{},
		logger:   logger,
		local:    time.Now,
	}
}

// WithCacheTTL sets how long a lookup is reused; zero queries on every call
func (r *Remote) WithCacheTTL(ttl time.Duration) *Remote {
	r.ttl = ttl
	return r
}

// WithFallback replaces the local clock used when the remote lookup fails
func (r *Remote) WithFallback(c Clock) *Remote {
	r.fallback = c
	return r
}

// Now implements Clock
func (r *Remote) Now() time.Time {
	return r.NowContext(context.Background())
}

// NowContext returns the remote time, querying the source when the cached
// offset is older than the ttl. A lookup is bounded by ctx and the timeout.
func (r *Remote) NowContext(ctx context.Context) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.local()
	if !r.checkedAt.IsZero() && now.Sub(r.checkedAt) < r.ttl {
		if r.fellBack {
			return r.fallback.Now()
		}
		return now.Add(r.offset).In(r.loc)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	t, err := r.fetch(ctx)
	r.checkedAt = r.local()
	if err != nil {
		r.fellBack = true
		r.logger.Warn("remote time unavailable, using local clock",
			zap.String("url", r.url), zap.Error(err))
		return r.fallback.Now()
	}
	r.fellBack = false
	r.offset = t.Sub(r.checkedAt)
	r.loc = t.Location()
	return t
}

func (r *Remote) fetch(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query time service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("time service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read response: %w", err)
	}

	var payload timePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode response: %w", err)
	}

	switch {
	case payload.DateTime != "":
		t, err := time.Parse(time.RFC3339Nano, payload.DateTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed datetime %q: %w", payload.DateTime, err)
		}
		return t, nil
	case payload.UnixTime != nil:
		return time.Unix(*payload.UnixTime, 0), nil
	}
	return time.Time{}, fmt.Errorf("response carries no time field")
}
