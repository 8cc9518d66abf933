package hydrate

import (
	"net/url"
	"sync"
	"time"
)

// politenessGate enforces the per-host constraint: at most one
// request in flight per hostname, plus a minimum delay between the end of
// one request to a host and the start of the next. It is orthogonal to the
// hydrator's global worker-pool semaphore, which bounds total concurrency
// across all hosts.
//
// Each host gets its own mutex, so waiting on one host never blocks fetches
// to a different host (a fair per-host queue, not a global one).
type politenessGate struct {
	delay time.Duration

	mu    sync.Mutex
	hosts map[string]*hostState
}

type hostState struct {
	mu      sync.Mutex
	lastEnd time.Time
}

func newPolitenessGate(delay time.Duration) *politenessGate {
	return &politenessGate{delay: delay, hosts: make(map[string]*hostState)}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}

func (g *politenessGate) stateFor(host string) *hostState {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.hosts[host]
	if !ok {
		st = &hostState{}
		g.hosts[host] = st
	}
	return st
}

// Do blocks until it is this host's turn, guaranteeing that no two calls to
// fn for the same host overlap and that at least g.delay elapses between the
// end of one call and the start of the next, then runs fn. The host lock is
// held for the duration of fn, which is what makes "at most one in flight"
// hold even though fn itself may block on network I/O.
func (g *politenessGate) Do(host string, fn func()) {
	st := g.stateFor(host)
	st.mu.Lock()
	defer st.mu.Unlock()

	if wait := g.delay - time.Since(st.lastEnd); wait > 0 {
		time.Sleep(wait)
	}
	fn()
	st.lastEnd = time.Now()
}
