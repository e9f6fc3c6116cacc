package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/domain"
)

// State is the provider snapshot exposed to consumers
type State struct {
	Coordinates *domain.Coordinates `json:"coordinates"`
	Error       string              `json:"error,omitempty"`
	IsLoading   bool                `json:"is_loading"`
}

// Provider wraps a Locator with request bookkeeping. It never retries on its
// own; consumers call GetLocation again.
type Provider struct {
	locator domain.Locator
	timeout time.Duration
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	coords    *domain.Coordinates
	errMsg    string
	loading   bool
	acquired  bool // at least one acquisition ever succeeded
	seq       uint64
	changed   chan struct{}
	listeners []func()
	closed    bool
}

// NewProvider creates a provider; timeout bounds each request
func NewProvider(locator domain.Locator, timeout time.Duration, logger *zap.Logger) *Provider {
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		locator: locator,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		changed: make(chan struct{}),
	}
}

// GetLocation requests the current position without blocking. A newer
// request supersedes any outstanding one.
func (p *Provider) GetLocation() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.seq++
	id := p.seq
	p.loading = true
	p.wg.Add(1)
	p.notifyLocked()
	listeners := p.listeners
	p.mu.Unlock()

	emit(listeners)
	go p.locate(id)
}

func (p *Provider) locate(id uint64) {
	defer p.wg.Done()

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	coords, err := p.locator.Locate(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &domain.LocationPlatformError{Reason: domain.MsgLocationTimeout, Err: err}
	}

	p.mu.Lock()
	if id != p.seq {
		p.mu.Unlock()
		p.logger.Debug("Discarding superseded location result", zap.Uint64("request", id))
		return
	}

	p.loading = false
	if err != nil {
		p.errMsg = domain.LocationMessage(err)
		if !p.acquired {
			p.coords = nil
		}
		p.logger.Warn("Location request failed",
			zap.String("message", p.errMsg),
			zap.Bool("kept_last_known", p.coords != nil),
			zap.Error(err))
	} else {
		p.coords = &coords
		p.errMsg = ""
		p.acquired = true
		p.logger.Info("Location acquired", zap.Stringer("coordinates", coords))
	}
	p.notifyLocked()
	listeners := p.listeners
	p.mu.Unlock()

	emit(listeners)
}

// State returns a snapshot
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := State{Error: p.errMsg, IsLoading: p.loading}
	if p.coords != nil {
		c := *p.coords
		s.Coordinates = &c
	}
	return s
}

// Subscribe registers fn to run after every state change
func (p *Provider) Subscribe(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners[:len(p.listeners):len(p.listeners)], fn)
}

// Wait blocks until no request is outstanding
func (p *Provider) Wait(ctx context.Context) error {
	for {
		p.mu.Lock()
		loading, changed := p.loading, p.changed
		p.mu.Unlock()
		if !loading {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels outstanding requests and waits for them
func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Provider) notifyLocked() {
	close(p.changed)
	p.changed = make(chan struct{})
}

func emit(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
