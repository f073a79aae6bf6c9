// Package notify is the console's message feed. The UI this replaces
// broadcast transient messages through one shared mutable list threaded
// through the component tree; here the feed is an owned publish/subscribe
// channel with a bounded lifetime per message.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification for rendering.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is one transient message. It expires on its own; call sites
// do not manage timers.
type Notification struct {
	ID        string
	Level     Level
	Text      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type dropCounter interface {
	ObserveDroppedNotification()
}

// Center fans notifications out to subscribers and keeps a bounded,
// self-expiring backlog for late readers.
type Center struct {
	mu       sync.Mutex
	ttl      time.Duration
	backlog  int
	messages []Notification
	subs     map[int]chan Notification
	nextSub  int
	dropped  dropCounter
	now      func() time.Time
}

// Option configures a Center.
type Option func(*Center)

// WithDropCounter wires instrumentation for messages lost to backpressure.
func WithDropCounter(c dropCounter) Option {
	return func(n *Center) { n.dropped = c }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Center) { n.now = now }
}

// NewCenter builds a feed with the given message lifetime and backlog bound.
func NewCenter(ttl time.Duration, backlog int, opts ...Option) *Center {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if backlog <= 0 {
		backlog = 64
	}
	c := &Center{
		ttl:     ttl,
		backlog: backlog,
		subs:    make(map[int]chan Notification),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish appends a message to the feed and delivers it to every subscriber
// that can take it without blocking.
func (c *Center) Publish(level Level, text string) Notification {
	now := c.now()
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	c.expireLocked(now)
	c.messages = append(c.messages, n)
	if len(c.messages) > c.backlog {
		c.messages = c.messages[len(c.messages)-c.backlog:]
		if c.dropped != nil {
			c.dropped.ObserveDroppedNotification()
		}
	}
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default:
			if c.dropped != nil {
				c.dropped.ObserveDroppedNotification()
			}
		}
	}
	c.mu.Unlock()

	return n
}

// Info publishes an informational message.
func (c *Center) Info(text string) Notification { return c.Publish(LevelInfo, text) }

// Error publishes a failure message.
func (c *Center) Error(text string) Notification { return c.Publish(LevelError, text) }

// Active returns the messages that have not yet expired, oldest first.
func (c *Center) Active() []Notification {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked(now)

	out := make([]Notification, len(c.messages))
	copy(out, c.messages)
	return out
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away; afterwards the channel is closed.
func (c *Center) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, c.backlog)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Center) expireLocked(now time.Time) {
	kept := c.messages[:0]
	for _, n := range c.messages {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.messages = kept
}
