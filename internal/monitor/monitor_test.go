package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/api"
	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

type fakeHandle struct {
	canceled bool
}

func (h *fakeHandle) Cancel() { h.canceled = true }

// fakeScheduler records scheduled tasks so tests drive expiry synchronously.
type fakeScheduler struct {
	m       sync.Mutex
	handles []*fakeHandle
	fns     []func()
	delays  []time.Duration
}

func (s *fakeScheduler) Schedule(delay time.Duration, fn func()) Handle {
	s.m.Lock()
	defer s.m.Unlock()
	h := &fakeHandle{}
	s.handles = append(s.handles, h)
	s.fns = append(s.fns, fn)
	s.delays = append(s.delays, delay)
	return h
}

// fireLast runs the most recently scheduled task, as the timer would.
func (s *fakeScheduler) fireLast() {
	s.m.Lock()
	fn := s.fns[len(s.fns)-1]
	s.m.Unlock()
	fn()
}

type fakeCart struct {
	snapshot domain.CartSnapshot
	err      error
}

func (c *fakeCart) Snapshot(context.Context) (domain.CartSnapshot, error) {
	return c.snapshot, c.err
}

type fakeBackend struct {
	m           sync.Mutex
	items       []api.EstimatedItem
	estimateErr error
	reportErr   error
	reports     []string // estimated values, in report order
	reportCarts []domain.CartSnapshot
}

func (b *fakeBackend) EstimateCartItems(context.Context, domain.CartSnapshot) ([]api.EstimatedItem, error) {
	if b.estimateErr != nil {
		return nil, b.estimateErr
	}
	return b.items, nil
}

func (b *fakeBackend) ReportAbandonedCart(_ context.Context, cart domain.CartSnapshot, estimatedValue, _ string) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.reportErr != nil {
		return b.reportErr
	}
	b.reports = append(b.reports, estimatedValue)
	b.reportCarts = append(b.reportCarts, cart)
	return nil
}

func (b *fakeBackend) reported() []string {
	b.m.Lock()
	defer b.m.Unlock()
	return append([]string(nil), b.reports...)
}

func newTestMonitor(cart CartReader, backend Backend, scheduler Scheduler) *Monitor {
	return New(cart, backend, scheduler, "sess_test", zap.NewNop())
}

func TestRearm_CancelsPreviousTimer(t *testing.T) {
	scheduler := &fakeScheduler{}
	m := newTestMonitor(&fakeCart{}, &fakeBackend{}, scheduler)

	for i := 0; i < 5; i++ {
		m.HandleCartChange(domain.CartChanged{Action: domain.CartActionAdd})
	}

	require.Len(t, scheduler.handles, 5)
	for i := 0; i < 4; i++ {
		assert.True(t, scheduler.handles[i].canceled, "timer %d should have been canceled", i)
	}
	assert.False(t, scheduler.handles[4].canceled, "only the last timer may stay pending")
	assert.Equal(t, 30*time.Minute, scheduler.delays[4])
}

func TestExpiry_ReportsNonEmptyCart(t *testing.T) {
	scheduler := &fakeScheduler{}
	cart := &fakeCart{snapshot: domain.CartSnapshot{
		{Key: "5", ProductID: 5, Quantity: 3},
		{Key: "7", ProductID: 7, Quantity: 1},
	}}
	backend := &fakeBackend{items: []api.EstimatedItem{
		{Key: "5", UnitPrice: "12.50", Quantity: 3},
		{Key: "7", UnitPrice: "4.90", Quantity: 1},
	}}
	m := newTestMonitor(cart, backend, scheduler)

	m.Rearm()
	scheduler.fireLast()

	reports := backend.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, "42.40", reports[0]) // 12.50*3 + 4.90
	require.Len(t, backend.reportCarts[0], 2)
}

func TestExpiry_EmptyCartSendsNothing(t *testing.T) {
	scheduler := &fakeScheduler{}
	backend := &fakeBackend{}
	m := newTestMonitor(&fakeCart{}, backend, scheduler)

	m.Rearm()
	scheduler.fireLast()

	assert.Empty(t, backend.reported())
}

func TestExpiry_EstimationFailureDegradesToZero(t *testing.T) {
	scheduler := &fakeScheduler{}
	cart := &fakeCart{snapshot: domain.CartSnapshot{{Key: "5", ProductID: 5, Quantity: 3}}}
	backend := &fakeBackend{estimateErr: errors.New("pricing unavailable")}
	m := newTestMonitor(cart, backend, scheduler)

	m.Rearm()
	scheduler.fireLast()

	reports := backend.reported()
	require.Len(t, reports, 1, "report must still go out on estimation failure")
	assert.Equal(t, "0.00", reports[0])
}

func TestExpiry_UnparseablePriceIsSkipped(t *testing.T) {
	scheduler := &fakeScheduler{}
	cart := &fakeCart{snapshot: domain.CartSnapshot{
		{Key: "5", ProductID: 5, Quantity: 2},
		{Key: "7", ProductID: 7, Quantity: 1},
	}}
	backend := &fakeBackend{items: []api.EstimatedItem{
		{Key: "5", UnitPrice: "not-a-price", Quantity: 2},
		{Key: "7", UnitPrice: "10.00", Quantity: 1},
	}}
	m := newTestMonitor(cart, backend, scheduler)

	m.Rearm()
	scheduler.fireLast()

	reports := backend.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, "10.00", reports[0])
}

func TestStop_CancelsPending(t *testing.T) {
	scheduler := &fakeScheduler{}
	m := newTestMonitor(&fakeCart{}, &fakeBackend{}, scheduler)

	m.Rearm()
	m.Stop()

	require.Len(t, scheduler.handles, 1)
	assert.True(t, scheduler.handles[0].canceled)

	// Stop while idle is a no-op.
	m.Stop()
}

func TestRearmProperty_OneReportPerQuietWindow(t *testing.T) {
	scheduler := &fakeScheduler{}
	cart := &fakeCart{snapshot: domain.CartSnapshot{{Key: "1", ProductID: 1, Quantity: 1}}}
	backend := &fakeBackend{items: []api.EstimatedItem{{Key: "1", UnitPrice: "2.00", Quantity: 1}}}
	m := newTestMonitor(cart, backend, scheduler)

	// N mutations inside the window, then one expiry of the final timer.
	for i := 0; i < 7; i++ {
		m.HandleCartChange(domain.CartChanged{Action: domain.CartActionUpdate})
	}
	scheduler.fireLast()

	assert.Len(t, backend.reported(), 1, "exactly one report per quiet window")
}
