// Package connectivity reports whether the catalog source is reachable and
// notifies subscribers on transitions.
package connectivity

import (
	"context"
	"net"
	"sync"
	"time"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Monitor is the connectivity signal contract.
type Monitor interface {
	// IsConnected reports the current connectivity state.
	IsConnected(ctx context.Context) bool
	// Subscribe registers fn to run on every transition. The returned
	// function unsubscribes.
	Subscribe(fn func(connected bool)) (unsubscribe func())
}

// Prober checks reachability by dialing a probe address on an interval.
type Prober struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	connected bool
	known     bool
	subs      map[int]func(bool)
	nextSubID int
}

// NewProber creates a monitor probing addr (host:port).
func NewProber(addr string, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Prober{
		addr:     addr,
		interval: interval,
		timeout:  3 * time.Second,
		logger:   util.GetLogger(),
		subs:     make(map[int]func(bool)),
	}
}

func (p *Prober) probe(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// IsConnected probes on demand when no poll result is known yet, then
// serves the cached state.
func (p *Prober) IsConnected(ctx context.Context) bool {
	p.mu.Lock()
	if p.known {
		connected := p.connected
		p.mu.Unlock()
		return connected
	}
	p.mu.Unlock()

	connected := p.probe(ctx)
	p.record(connected)
	return connected
}

// Subscribe registers a transition callback.
func (p *Prober) Subscribe(fn func(connected bool)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSubID
	p.nextSubID++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Prober) record(connected bool) {
	p.mu.Lock()
	changed := !p.known || p.connected != connected
	p.known = true
	p.connected = connected
	var fns []func(bool)
	if changed {
		for _, fn := range p.subs {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	if changed {
		p.logger.Info("connectivity changed", zap.Bool("connected", connected))
		for _, fn := range fns {
			fn(connected)
		}
	}
}

// Start polls until ctx is cancelled.
func (p *Prober) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.record(p.probe(ctx))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.record(p.probe(ctx))
		}
	}
}

// Static is a fixed-state monitor for embedding without a probe and for
// tests. Transitions are driven manually with Set.
type Static struct {
	mu        sync.Mutex
	connected bool
	subs      map[int]func(bool)
	nextSubID int
}

// NewStatic creates a static monitor with an initial state.
func NewStatic(connected bool) *Static {
	return &Static{
		connected: connected,
		subs:      make(map[int]func(bool)),
	}
}

// IsConnected returns the current state.
func (s *Static) IsConnected(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Subscribe registers a transition callback.
func (s *Static) Subscribe(fn func(connected bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Set changes the state and fires subscribers on transition.
func (s *Static) Set(connected bool) {
	s.mu.Lock()
	changed := s.connected != connected
	s.connected = connected
	var fns []func(bool)
	if changed {
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(connected)
	}
}
