package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter enforces sliding-window limits on outbound geocoding requests.
// Nominatim's usage policy caps request rates, so a denied request is skipped
// (leaving null coordinates for the scheduler to retry) rather than queued.
type RateLimiter struct {
	enabled bool
	windows []*window
	mu      sync.Mutex
}

// window tracks request timestamps within one sliding span
type window struct {
	span  time.Duration
	limit int
	times []time.Time
}

// NewRateLimiter creates a limiter with per-minute, per-hour, and per-day
// caps. A cap of 0 disables that window.
func NewRateLimiter(perMinute, perHour, perDay int, enabled bool) *RateLimiter {
	rl := &RateLimiter{enabled: enabled}
	for _, w := range []struct {
		span  time.Duration
		limit int
	}{
		{time.Minute, perMinute},
		{time.Hour, perHour},
		{24 * time.Hour, perDay},
	} {
		if w.limit > 0 {
			rl.windows = append(rl.windows, &window{span: w.span, limit: w.limit})
		}
	}
	return rl
}

// AllowRequest records and permits a request unless any window is full
func (rl *RateLimiter) AllowRequest() bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for _, w := range rl.windows {
		w.expire(now)
		if len(w.times) >= w.limit {
			return false
		}
	}

	for _, w := range rl.windows {
		w.times = append(w.times, now)
	}
	return true
}

// expire drops timestamps older than the window span
func (w *window) expire(now time.Time) {
	cutoff := now.Add(-w.span)
	kept := w.times[:0]
	for _, t := range w.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.times = kept
}

// Stats reports current usage per window
type Stats struct {
	Enabled bool          `json:"enabled"`
	Windows []WindowStats `json:"windows,omitempty"`
}

// WindowStats is the usage of one sliding window
type WindowStats struct {
	SpanSeconds int `json:"span_seconds"`
	Used        int `json:"used"`
	Limit       int `json:"limit"`
	Remaining   int `json:"remaining"`
}

// GetStats returns current limiter statistics
func (rl *RateLimiter) GetStats() Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	stats := Stats{Enabled: true}
	for _, w := range rl.windows {
		w.expire(now)
		remaining := w.limit - len(w.times)
		if remaining < 0 {
			remaining = 0
		}
		stats.Windows = append(stats.Windows, WindowStats{
			SpanSeconds: int(w.span.Seconds()),
			Used:        len(w.times),
			Limit:       w.limit,
			Remaining:   remaining,
		})
	}
	return stats
}

// Reset clears all tracked requests (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for _, w := range rl.windows {
		w.times = nil
	}
}
