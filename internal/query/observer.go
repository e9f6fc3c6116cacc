package query

import (
	"context"
	"sync"
	"time"
)

// Result is what a consumer sees of its query
type Result[T any] struct {
	Data       T
	HasData    bool
	Err        error
	Status     Status
	IsLoading  bool // no result yet and a fetch is running
	IsFetching bool // any fetch is running, including background refetches
	UpdatedAt  time.Time
}

// Pending reports whether the query has not settled yet
func (r Result[T]) Pending() bool {
	return r.Status == StatusPending
}

// Observer binds one consumer to one cache entry at a time
type Observer[T any] struct {
	client *Client

	mu      sync.Mutex
	key     Key
	enabled bool
	entry   *entry
	closed  bool
}

// Observe creates an observer. A disabled observer never fetches.
func Observe[T any](c *Client, key Key, fetch func(context.Context) (T, error), enabled bool) *Observer[T] {
	o := &Observer[T]{client: c}
	o.SetQuery(key, fetch, enabled)
	return o
}

// SetQuery rebinds the observer, e.g. when the coordinates change. The old
// entry keeps its data for other consumers and starts its retention timer.
func (o *Observer[T]) SetQuery(key Key, fetch func(context.Context) (T, error), enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	if o.key == key && o.enabled == enabled && (o.entry != nil) == enabled {
		return
	}

	old := o.entry
	o.key = key
	o.enabled = enabled
	o.entry = nil
	if enabled {
		o.entry = o.client.attach(key, wrap(fetch))
	}
	if old != nil {
		o.client.detach(old)
	}
}

// Key returns the bound key
func (o *Observer[T]) Key() Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.key
}

// Result returns the current state, triggering a background refetch of stale data
func (o *Observer[T]) Result() Result[T] {
	o.mu.Lock()
	e := o.entry
	o.mu.Unlock()

	if e == nil {
		return Result[T]{Status: StatusPending}
	}
	return toResult[T](o.client.read(e))
}

// Refetch fetches regardless of staleness, joining a fetch already in flight.
// Returns false when the observer is disabled.
func (o *Observer[T]) Refetch() bool {
	o.mu.Lock()
	e := o.entry
	o.mu.Unlock()

	if e == nil {
		return false
	}
	return o.client.refetch(e)
}

// Wait blocks until no fetch is running for the bound entry
func (o *Observer[T]) Wait(ctx context.Context) error {
	for {
		changed := o.client.changes()

		o.mu.Lock()
		e := o.entry
		o.mu.Unlock()
		if e == nil || !o.client.peek(e).fetching {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close releases the entry; it is evicted after the retention window
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	if o.entry != nil {
		o.client.detach(o.entry)
		o.entry = nil
	}
}

func wrap[T any](fetch func(context.Context) (T, error)) FetchFunc {
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

func toResult[T any](s state) Result[T] {
	r := Result[T]{
		HasData:    s.hasData,
		Err:        s.err,
		Status:     s.status,
		IsFetching: s.fetching,
		IsLoading:  s.status == StatusPending && s.fetching,
		UpdatedAt:  s.dataUpdatedAt,
	}
	if s.hasData {
		r.Data, _ = s.data.(T)
	}
	return r
}
