package hostbudget

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(requests int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	return New(Config{Requests: requests, Window: window}, WithClock(clock)), clock
}

func TestAllow_WithinBudget(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		d := l.Allow("example.com")
		require.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}
}

func TestAllow_DeniesOverBudget(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	l.Allow("example.com")
	l.Allow("example.com")
	d := l.Allow("example.com")

	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
}

func TestAllow_HostsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("a.example.com").Allowed)
	assert.False(t, l.Allow("a.example.com").Allowed)
	assert.True(t, l.Allow("b.example.com").Allowed)
}

func TestAllow_WindowSlides(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("example.com").Allowed)
	require.False(t, l.Allow("example.com").Allowed)

	clock.Advance(61 * time.Second)
	assert.True(t, l.Allow("example.com").Allowed, "budget should recover once the window slides past the first request")
}

func TestAllow_DeniedAttemptsDoNotConsumeBudget(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("example.com").Allowed)
	for i := 0; i < 10; i++ {
		require.False(t, l.Allow("example.com").Allowed)
	}

	// Only the single allowed request occupies the window, so recovery
	// happens when it ages out, not 10 retries later.
	clock.Advance(61 * time.Second)
	assert.True(t, l.Allow("example.com").Allowed)
}

func TestAllow_ZeroRequestsDisablesLimiting(t *testing.T) {
	l, _ := newTestLimiter(0, time.Minute)

	for i := 0; i < 100; i++ {
		d := l.Allow("example.com")
		require.True(t, d.Allowed)
		assert.Equal(t, -1, d.Remaining)
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	require.True(t, l.Allow("example.com").Allowed)
	require.False(t, l.Allow("example.com").Allowed)

	l.Reset()
	assert.True(t, l.Allow("example.com").Allowed)
}

func TestAllow_RetryAfterReflectsOldestRequest(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("example.com")
	clock.Advance(30 * time.Second)
	l.Allow("example.com")

	d := l.Allow("example.com")
	require.False(t, d.Allowed)
	assert.Equal(t, 30*time.Second, d.RetryAfter)
}

func TestAllow_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			allowed[i] = l.Allow("example.com").Allowed
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 50, count, "exactly the budget should be admitted under contention")
}
