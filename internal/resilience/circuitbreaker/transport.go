// This file implements an http.RoundTripper wrapper so an entire HTTP
// client's traffic flows through one circuit breaker, protecting feed
// collection from a collapsing upstream without each caller wiring the
// breaker by hand.
package circuitbreaker

import (
	"net/http"

	"github.com/sony/gobreaker"
)

// Transport is an http.RoundTripper that short-circuits requests while its
// breaker is open. Only transport-level failures count against the breaker;
// HTTP error statuses are application outcomes and pass through untouched.
type Transport struct {
	cb   *CircuitBreaker
	next http.RoundTripper
}

// NewTransport wraps next with cb. A nil next falls back to
// http.DefaultTransport.
func NewTransport(cb *CircuitBreaker, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{cb: cb, next: next}
}

// RoundTrip implements http.RoundTripper. While the breaker is open it
// returns gobreaker.ErrOpenState without touching the network.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.cb.Execute(func() (interface{}, error) {
		return t.next.RoundTrip(req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}

// IsOpen reports whether the wrapped breaker currently rejects requests.
func (t *Transport) IsOpen() bool {
	return t.cb.State() == gobreaker.StateOpen
}
