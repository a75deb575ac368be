package clock

import (
	"sync"
	"time"

	"github.com/example/wordcoach/pkg/models"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// Today returns the calendar date reported by c
func Today(c Clock) time.Time {
	return models.Day(c.Now())
}

// System reads the local system time
type System struct{}

// Now implements Clock
func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a manually driven clock, used by tests and replays
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed creates a clock frozen at t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now implements Clock
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// AddDays advances the clock by n calendar days
func (f *Fixed) AddDays(n int) {
	f.mu.Lock()
	f.t = f.t.AddDate(0, 0, n)
	f.mu.Unlock()
}
