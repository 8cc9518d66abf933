// Package hostbudget bounds how many article fetches a single remote host
// absorbs inside one run. It is the coarse per-host ceiling that sits above
// the hydrator's politeness delay: the delay spaces requests out, the budget
// caps their total, so a run over a pool dominated by one publisher never
// turns into a crawl of that publisher.
//
// The limiter is a sliding-window counter per host with an injectable clock,
// so time-dependent behavior stays testable without sleeping.
package hostbudget

import (
	"sync"
	"time"
)

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config sizes the per-host window.
type Config struct {
	// Requests is the maximum number of fetches allowed per host within
	// Window. Zero or negative disables limiting entirely.
	Requests int
	// Window is the sliding interval the request count is evaluated over.
	Window time.Duration
}

// DefaultConfig allows 30 fetches per host per 10 minutes, enough for every
// realistic daily pool while still stopping a degenerate single-host run.
func DefaultConfig() Config {
	return Config{Requests: 30, Window: 10 * time.Minute}
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Host      string
	Remaining int
	// RetryAfter is how long until the oldest counted request leaves the
	// window; zero when Allowed.
	RetryAfter time.Duration
}

// Limiter tracks per-host request timestamps inside the sliding window.
// Safe for concurrent use.
type Limiter struct {
	cfg     Config
	clock   Clock
	metrics Metrics

	mu    sync.Mutex
	hosts map[string][]time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock injects a fake clock for tests.
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

// WithMetrics wires a metrics sink; the default is a no-op.
func WithMetrics(m Metrics) Option {
	return func(l *Limiter) { l.metrics = m }
}

// New constructs a Limiter with cfg.
func New(cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		clock:   systemClock{},
		metrics: NopMetrics{},
		hosts:   make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records one request attempt against host and reports whether it fits
// the budget. Denied attempts are not counted, so a host's budget recovers
// as its window slides regardless of how often callers retry.
func (l *Limiter) Allow(host string) Decision {
	if l.cfg.Requests <= 0 {
		return Decision{Allowed: true, Host: host, Remaining: -1}
	}

	now := l.clock.Now()
	cutoff := now.Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.hosts[host]
	live := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= l.cfg.Requests {
		l.hosts[host] = live
		l.metrics.RecordDenied(host)
		return Decision{
			Allowed:    false,
			Host:       host,
			Remaining:  0,
			RetryAfter: live[0].Sub(cutoff),
		}
	}

	live = append(live, now)
	l.hosts[host] = live
	l.metrics.RecordAllowed(host)
	return Decision{
		Allowed:   true,
		Host:      host,
		Remaining: l.cfg.Requests - len(live),
	}
}

// Reset clears all tracked hosts; a new run starts with full budgets.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hosts = make(map[string][]time.Time)
}
