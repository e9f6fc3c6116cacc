package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status is the settled state of a cache entry
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

// MarshalText renders the status name in JSON payloads
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Key is the identity of a cached query: kind plus parameters
type Key string

// NewKey builds a key such as "weather|12.9000,77.6000"
func NewKey(kind string, params ...any) Key {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, kind)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return Key(strings.Join(parts, "|"))
}

// Kind returns the query kind part of the key
func (k Key) Kind() string {
	kind, _, _ := strings.Cut(string(k), "|")
	return kind
}

// Options configures freshness, retention and retry for every entry
type Options struct {
	StaleTime  time.Duration // data older than this is refetched in the background
	GCTime     time.Duration // unobserved entries are evicted after this
	Retry      int           // extra attempts after a failure; 0 disables retries
	RetryDelay time.Duration
}

// DefaultOptions returns the dashboard policy: 5m stale, 10m retention, no retry
func DefaultOptions() Options {
	return Options{
		StaleTime:  5 * time.Minute,
		GCTime:     10 * time.Minute,
		Retry:      0,
		RetryDelay: time.Second,
	}
}

// FetchFunc performs one remote fetch for an entry
type FetchFunc func(ctx context.Context) (any, error)

type state struct {
	data          any
	hasData       bool
	err           error
	status        Status
	fetching      bool
	dataUpdatedAt time.Time
	errUpdatedAt  time.Time
}

type entry struct {
	key       Key
	fn        FetchFunc
	state     state
	observers int
	waiters   int    // callers waiting on the key's singleflight call
	calls     uint64 // fetchLocked calls so far
	written   uint64 // call whose outcome is in state
	gcTimer   *time.Timer
}

// Client is the process-scoped query cache. Construct it once at startup and
// inject it into every consumer.
type Client struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group
	wg     sync.WaitGroup

	mu      sync.Mutex
	entries map[Key]*entry
	changed chan struct{}
	closed  bool
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithClock replaces time.Now for staleness checks
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a query cache
func NewClient(opts Options, logger *zap.Logger, options ...ClientOption) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[Key]*entry),
		changed: make(chan struct{}),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Options returns the cache policy
func (c *Client) Options() Options {
	return c.opts
}

// Len returns the number of retained entries
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Has reports whether an entry for key is retained
func (c *Client) Has(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Close cancels in-flight fetches and waits for them to settle
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, e := range c.entries {
		if e.gcTimer != nil {
			e.gcTimer.Stop()
		}
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// changes returns a channel closed on the next state change of any entry
func (c *Client) changes() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

func (c *Client) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Client) attach(key Key, fn FetchFunc) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key}
		c.entries[key] = e
	}
	e.fn = fn
	e.observers++
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}

	if c.isStaleLocked(e) {
		c.fetchLocked(e)
	}
	return e
}

func (c *Client) detach(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.observers--
	if e.observers == 0 && !e.state.fetching {
		c.scheduleGCLocked(e)
	}
}

func (c *Client) isStaleLocked(e *entry) bool {
	if !e.state.hasData {
		return true
	}
	return c.now().Sub(e.state.dataUpdatedAt) >= c.opts.StaleTime
}

// read snapshots an entry. Stale data is returned as-is while a background
// refetch starts; errored entries are not refetched until asked.
func (c *Client) read(e *entry) state {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.state.hasData && e.observers > 0 && c.isStaleLocked(e) {
		c.fetchLocked(e)
	}
	return e.state
}

func (c *Client) peek(e *entry) state {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.state
}

func (c *Client) refetch(e *entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchLocked(e)
}

// fetchLocked joins the singleflight call for e's key, starting one if none is
// in flight. Each caller waits on its own DoChan channel; the entry stays
// fetching until every waiter has settled. Returns false once the client is
// closed.
func (c *Client) fetchLocked(e *entry) bool {
	if c.closed {
		return false
	}
	if e.waiters == 0 {
		e.state.fetching = true
		c.notifyLocked()
		c.logger.Debug("Query fetch started", zap.String("key", string(e.key)))
	}
	e.waiters++
	e.calls++
	call := e.calls
	fn := e.fn
	began := time.Now()

	c.wg.Add(1)
	ch := c.group.DoChan(string(e.key), func() (any, error) {
		return c.run(fn)
	})
	go func() {
		defer c.wg.Done()
		res := <-ch
		c.settle(e, call, res.Val, res.Err, res.Shared, time.Since(began))
	}()

	return true
}

func (c *Client) run(fn FetchFunc) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.Retry; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(c.opts.RetryDelay)
			select {
			case <-c.ctx.Done():
				timer.Stop()
				return nil, lastErr
			case <-timer.C:
			}
		}

		data, err := fn(c.ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if c.ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// settle records one waiter's outcome. An outcome older than the one already
// recorded only releases the waiter.
func (c *Client) settle(e *entry, call uint64, data any, err error, shared bool, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.waiters--
	e.state.fetching = e.waiters > 0

	if call > e.written {
		e.written = call
		if err != nil {
			e.state.status = StatusError
			e.state.err = err
			e.state.data = nil
			e.state.hasData = false
			e.state.errUpdatedAt = c.now()
			c.logger.Warn("Query fetch failed",
				zap.String("key", string(e.key)),
				zap.Duration("took", took),
				zap.Error(err))
		} else {
			e.state.status = StatusSuccess
			e.state.err = nil
			e.state.data = data
			e.state.hasData = true
			e.state.dataUpdatedAt = c.now()
			c.logger.Debug("Query fetch succeeded",
				zap.String("key", string(e.key)),
				zap.Bool("shared", shared),
				zap.Duration("took", took))
		}
	}

	c.notifyLocked()
	if c.entries[e.key] != e || e.state.fetching {
		return
	}
	if e.observers == 0 && !c.closed {
		c.scheduleGCLocked(e)
	}
}

func (c *Client) scheduleGCLocked(e *entry) {
	if e.gcTimer != nil {
		e.gcTimer.Stop()
	}
	e.gcTimer = time.AfterFunc(c.opts.GCTime, func() {
		c.collect(e)
	})
}

func (c *Client) collect(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[e.key] != e || e.observers > 0 || e.state.fetching {
		return
	}
	delete(c.entries, e.key)
	e.gcTimer = nil
	c.notifyLocked()
	c.logger.Debug("Query evicted", zap.String("key", string(e.key)))
}
