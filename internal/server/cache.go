package server

import (
	"context"
	"sync"
	"time"

	"github.com/winmcp/winmcp/internal/model"
)

// StateCache memoizes the expensive desktop capture for a short TTL so a
// burst of read tools (snapshot, click-by-label, find) does not re-walk
// the whole automation tree each time.
type StateCache struct {
	mu       sync.Mutex
	state    *model.DesktopState
	captured time.Time
	ttl      time.Duration
}

// NewStateCache creates a cache. A ttl of 0 disables caching.
func NewStateCache(ttl time.Duration) *StateCache {
	return &StateCache{ttl: ttl}
}

// Get returns the cached state if fresh, otherwise captures a new one.
// Concurrent misses may capture twice; each capture owns its own state so
// both results are valid and the later write wins.
func (c *StateCache) Get(ctx context.Context, capture func(context.Context) (*model.DesktopState, error)) (*model.DesktopState, error) {
	if c.ttl > 0 {
		c.mu.Lock()
		if c.state != nil && time.Since(c.captured) < c.ttl {
			state := c.state
			c.mu.Unlock()
			return state, nil
		}
		c.mu.Unlock()
	}

	state, err := capture(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.state = state
	c.captured = time.Now()
	c.mu.Unlock()
	return state, nil
}

// Last returns the most recent capture without refreshing, for label
// resolution against the snapshot the agent actually saw.
func (c *StateCache) Last() *model.DesktopState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Invalidate clears the cache; write actions call this so the next read
// reflects the mutated UI.
func (c *StateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
}
