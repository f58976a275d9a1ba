package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bluff-board/internal/logger"

	"github.com/rs/zerolog"
)

const DefaultInterval = 2000 * time.Millisecond

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Poller fires a refresh immediately and then on every tick. Ticks never wait for an
// earlier cycle, so cycles may overlap; the last one to finish owns the document.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	log       zerolog.Logger
}

type Option func(*Poller)

func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(p *Poller) {
		p.newTicker = newTicker
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Poller) {
		p.log = log
	}
}

func NewPoller(refresher Refresher, interval time.Duration, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		refresher: refresher,
		interval:  interval,
		newTicker: newRealTicker,
		log:       logger.Component("dashboard"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle controls a running poller.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	cycles sync.WaitGroup
}

// Stop ends the schedule. It does not block and does not abort in-flight cycles.
func (h *Handle) Stop() {
	h.cancel()
}

// Done is closed once the schedule has stopped issuing cycles.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the schedule has stopped and every started cycle has returned.
func (h *Handle) Wait() {
	<-h.done
	h.cycles.Wait()
}

func (p *Poller) Start(ctx context.Context) *Handle {
	loopCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	// cycles outlive Stop; they only inherit values from ctx
	cycleCtx := context.WithoutCancel(ctx)
	ticker := p.newTicker(p.interval)

	h.cycles.Add(1)
	go p.cycle(cycleCtx, h)

	go func() {
		defer close(h.done)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C():
				h.cycles.Add(1)
				go p.cycle(cycleCtx, h)
			}
		}
	}()
	return h
}

func (p *Poller) cycle(ctx context.Context, h *Handle) {
	defer h.cycles.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Err(fmt.Errorf("panic: %v", r)).Msg("refresh cycle panicked")
		}
	}()
	if err := p.refresher.Refresh(ctx); err != nil {
		p.log.Warn().Err(err).Msg("refresh failed; keeping previous content")
		return
	}
	p.log.Debug().Msg("board refreshed")
}
