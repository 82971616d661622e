package nav

import (
	"context"
	"sync"
)

const maxHistory = 32

// Controller holds the current payload and the context its requests run
// under. Each transition cancels the old context and bumps the generation so
// late responses can be recognised and dropped.
type Controller struct {
	mu      sync.Mutex
	parent  context.Context
	current Payload
	history []Payload
	ctx     context.Context
	cancel  context.CancelFunc
	gen     uint64
}

// NewController starts on start, deriving page contexts from parent.
func NewController(parent context.Context, start Payload) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	if start == nil {
		start = Home{}
	}
	c := &Controller{parent: parent}
	c.enter(start)
	return c
}

// Navigate makes p the current page and returns its generation.
func (c *Controller) Navigate(p Payload) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.history = append(c.history, c.current)
		if len(c.history) > maxHistory {
			c.history = c.history[len(c.history)-maxHistory:]
		}
	}
	c.enter(p)
	return c.gen
}

// Replace swaps the current page without recording it in history.
func (c *Controller) Replace(p Payload) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enter(p)
	return c.gen
}

// Back returns to the previous payload. It reports false at the root.
func (c *Controller) Back() (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) == 0 {
		return c.current, false
	}
	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.enter(prev)
	return prev, true
}

// Reset clears history and goes to p, used after a completed booking.
func (c *Controller) Reset(p Payload) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	c.enter(p)
	return c.gen
}

func (c *Controller) Current() Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Context is canceled as soon as the page is left.
func (c *Controller) Context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Accepts reports whether a message tagged gen belongs to the current page.
func (c *Controller) Accepts(gen uint64) bool {
	return c.Generation() == gen
}

func (c *Controller) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// Close cancels the current page context.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) enter(p Payload) {
	if p == nil {
		p = Home{}
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.ctx, c.cancel = context.WithCancel(c.parent)
	c.current = p
	c.gen++
}
