// Package monitor watches for abandoned carts: a debounced timer re-armed on
// every cart mutation that, on expiry, estimates and reports the cart value.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/api"
	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

const (
	defaultWindow = 30 * time.Minute
	reportTimeout = 30 * time.Second
)

// CartReader exposes the current persisted cart lines.
type CartReader interface {
	Snapshot(ctx context.Context) (domain.CartSnapshot, error)
}

// Backend is the slice of the API client the monitor needs.
type Backend interface {
	EstimateCartItems(ctx context.Context, cart domain.CartSnapshot) ([]api.EstimatedItem, error)
	ReportAbandonedCart(ctx context.Context, cart domain.CartSnapshot, estimatedValue, sessionID string) error
}

// Monitor holds at most one pending timer: idle (none) or armed (one).
type Monitor struct {
	mu        sync.Mutex
	cart      CartReader
	backend   Backend
	scheduler Scheduler
	sessionID string
	logger    *zap.Logger
	window    time.Duration
	pending   Handle
}

func New(cart CartReader, backend Backend, scheduler Scheduler, sessionID string, logger *zap.Logger) *Monitor {
	return &Monitor{
		cart:      cart,
		backend:   backend,
		scheduler: scheduler,
		sessionID: sessionID,
		logger:    logger,
		window:    defaultWindow,
	}
}

// HandleCartChange is the cart store subscriber: every mutation re-arms the
// inactivity timer.
func (m *Monitor) HandleCartChange(domain.CartChanged) {
	m.Rearm()
}

// Rearm cancels any pending timer and schedules a fresh one, so the window
// always counts from the last mutation.
func (m *Monitor) Rearm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.pending.Cancel()
	}
	m.pending = m.scheduler.Schedule(m.window, m.expire)
}

// Stop cancels the pending timer, returning the monitor to idle.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.pending.Cancel()
		m.pending = nil
	}
}

func (m *Monitor) expire() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	snapshot, err := m.cart.Snapshot(ctx)
	if err != nil {
		m.logger.Warn("abandoned cart check failed to read cart", zap.Error(err))
		return
	}
	if len(snapshot) == 0 {
		return
	}

	value := m.estimate(ctx, snapshot)
	if errReport := m.backend.ReportAbandonedCart(ctx, snapshot, value.StringFixed(2), m.sessionID); errReport != nil {
		m.logger.Warn("abandoned cart report failed", zap.Error(errReport))
	}
}

// estimate prices the cart via the backend, degrading to the partial or zero
// value when pricing data is unavailable.
func (m *Monitor) estimate(ctx context.Context, snapshot domain.CartSnapshot) decimal.Decimal {
	items, err := m.backend.EstimateCartItems(ctx, snapshot)
	if err != nil {
		m.logger.Warn("cart value estimation failed", zap.Error(err))
		return decimal.Zero
	}

	total := decimal.Zero
	for _, item := range items {
		price, errParse := decimal.NewFromString(item.UnitPrice)
		if errParse != nil {
			m.logger.Warn("skipping unparseable unit price",
				zap.String("key", item.Key),
				zap.String("unit_price", item.UnitPrice))
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
