// Package view holds the per-list lifecycle the console renders from:
// Idle → Loading → {Loaded, Failed}. Views never patch themselves after a
// mutation; the only consistency mechanism is an authoritative re-read.
// Concurrent reads of the same view collapse into one in-flight request,
// and a closed view cancels its outstanding fetch instead of racing a
// state update against teardown.
package view

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is the view lifecycle position.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrClosed is returned when a load is requested after Close.
var ErrClosed = errors.New("view closed")

type reloadCounter interface {
	ObserveReload(view string)
}

// FetchFunc produces the authoritative list contents.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// List is a reloadable list view over items of type T.
type List[T any] struct {
	name    string
	fetch   FetchFunc[T]
	metrics reloadCounter

	root   context.Context
	cancel context.CancelFunc
	flight singleflight.Group

	mu     sync.Mutex
	state  State
	items  []T
	err    error
	closed bool
}

// NewList builds an idle view. The metrics counter may be nil.
func NewList[T any](name string, fetch FetchFunc[T], metrics reloadCounter) *List[T] {
	root, cancel := context.WithCancel(context.Background())
	return &List[T]{
		name:    name,
		fetch:   fetch,
		metrics: metrics,
		root:    root,
		cancel:  cancel,
	}
}

// Load fetches the list from the authority. Every call re-reads (there is
// no caching across navigations), but loads that overlap in time share a
// single request. The caller's context only governs how long this caller
// waits; the shared fetch itself is bound to the view's lifetime so an
// impatient caller does not cancel it for everyone else.
func (l *List[T]) Load(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	l.state = Loading
	l.mu.Unlock()

	ch := l.flight.DoChan(l.name, func() (interface{}, error) {
		if l.metrics != nil {
			l.metrics.ObserveReload(l.name)
		}
		items, err := l.fetch(l.root)
		l.settle(items, err)
		return items, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		items, _ := res.Val.([]T)
		return items, nil
	}
}

// settle records the outcome of a fetch unless the view was closed while it
// was in flight.
func (l *List[T]) settle(items []T, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if err != nil {
		l.state = Failed
		l.err = err
		return
	}
	l.state = Loaded
	l.items = items
	l.err = nil
}

// State reports the current lifecycle position.
func (l *List[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Items returns a snapshot of the last loaded contents.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Err returns the failure from the most recent load, if any.
func (l *List[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close cancels any in-flight fetch and rejects further loads. A fetch that
// lands after Close does not touch the view.
func (l *List[T]) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}
