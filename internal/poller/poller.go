// Package poller refreshes a displayed order view from the collaborator on
// a fixed interval. Each refresh fetches the full order set, normalizes it
// and replaces the view's snapshot wholesale; no field-level merging is
// needed because submitted orders are only ever mutated through fulfillment,
// which commits server-side before local state changes.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"confeitaria/internal/client"
	"confeitaria/internal/domain"
	"confeitaria/internal/normalize"

	"go.uber.org/zap"
)

// DefaultInterval is the production board refresh cadence.
const DefaultInterval = 5 * time.Second

// ActiveOnly keeps the orders shown on the production board: the three
// non-terminal statuses.
func ActiveOnly(p domain.Pedido) bool {
	return p.Status == domain.StatusPendente ||
		p.Status == domain.StatusEmPreparo ||
		p.Status == domain.StatusPronto
}

// Options configures one polled view.
type Options struct {
	// Kind selects which order set is fetched.
	Kind domain.PedidoKind
	// Interval between refreshes; DefaultInterval when zero.
	Interval time.Duration
	// Filter keeps the orders this view displays; nil keeps everything.
	Filter func(domain.Pedido) bool
	// OnUpdate receives the freshly filtered snapshot after each
	// successful refresh.
	OnUpdate func([]domain.Pedido)
	// OnError receives fetch failures. The previous snapshot is kept.
	OnError func(error)
}

// Poller owns the refresh loop for one view. A Poller is created stopped;
// Start launches the loop and Stop tears it down. Stop is idempotent and
// waits for the loop to exit, so closing a view guarantees its poll loop is
// gone.
type Poller struct {
	api        client.API
	normalizer *normalize.Normalizer
	logger     *zap.Logger
	opts       Options

	mu      sync.Mutex
	pedidos []domain.Pedido

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Poller for the given view options.
func New(api client.API, normalizer *normalize.Normalizer, logger *zap.Logger, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Poller{
		api:        api,
		normalizer: normalizer,
		logger:     logger,
		opts:       opts,
	}
}

// Start launches the poll loop: an immediate refresh, then one per interval.
// Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if err := p.Refresh(ctx); err != nil {
		p.reportError(err)
	}

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.reportError(err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the poll loop and waits for it to exit. Safe to call on a
// poller that was never started, and safe to call repeatedly.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

// Refresh performs one fetch-normalize-filter-replace cycle. On failure the
// previous snapshot is left untouched and the error is returned; the view
// keeps showing its last-known-good data.
func (p *Poller) Refresh(ctx context.Context) error {
	records, err := p.api.ListPedidos(ctx, p.opts.Kind)
	if err != nil {
		return fmt.Errorf("refresh %s view: %w", p.opts.Kind, err)
	}

	pedidos := p.normalizer.Pedidos(records, p.opts.Kind)
	if p.opts.Filter != nil {
		filtered := pedidos[:0]
		for _, pedido := range pedidos {
			if p.opts.Filter(pedido) {
				filtered = append(filtered, pedido)
			}
		}
		pedidos = filtered
	}

	p.mu.Lock()
	p.pedidos = pedidos
	p.mu.Unlock()

	if p.opts.OnUpdate != nil {
		p.opts.OnUpdate(p.Pedidos())
	}
	return nil
}

// Pedidos returns a copy of the last successful snapshot.
func (p *Poller) Pedidos() []domain.Pedido {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Pedido, len(p.pedidos))
	copy(out, p.pedidos)
	return out
}

func (p *Poller) reportError(err error) {
	p.logger.Error("Poll refresh failed", zap.Error(err))
	if p.opts.OnError != nil {
		p.opts.OnError(err)
	}
}
