// Package tracker records the user journey and relays it to the analytics
// backend. Delivery is fire-and-forget: failures are logged and dropped.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

const (
	maxSearches     = 5
	maxProductViews = 10
	tickInterval    = 30 * time.Second
	deliveryTimeout = 10 * time.Second
)

// Sink delivers one augmented journey event.
type Sink interface {
	Deliver(ctx context.Context, event domain.JourneyEvent) error
}

type SearchRecord struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

type ProductViewRecord struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

type Tracker struct {
	mu         sync.Mutex
	sink       Sink
	sessionID  string
	logger     *zap.Logger
	now        func() time.Time
	start      time.Time
	tick       time.Duration
	timeOnSite int

	categorySet     map[string]struct{}
	categoryVisited []string
	searches        []SearchRecord
	views           []ProductViewRecord

	stop chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func New(sink Sink, sessionID string, logger *zap.Logger) *Tracker {
	return &Tracker{
		sink:        sink,
		sessionID:   sessionID,
		logger:      logger,
		now:         time.Now,
		tick:        tickInterval,
		categorySet: make(map[string]struct{}),
	}
}

// Start marks the session beginning, emits the entry event and starts the
// 30-second time-on-site tick.
func (t *Tracker) Start() {
	t.mu.Lock()
	t.start = t.now()
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.mu.Unlock()

	t.Track(domain.EventEntry, map[string]any{"timestamp": t.now().Format(time.RFC3339)})

	go t.run(t.stop)
}

func (t *Tracker) run(stop <-chan struct{}) {
	defer close(t.done)
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.updateTimeOnSite()
		case <-stop:
			return
		}
	}
}

// Pause is the visibility-loss analogue: it emits an exit event carrying the
// elapsed time but keeps the session running.
func (t *Tracker) Pause() {
	elapsed := t.updateTimeOnSite()
	t.Track(domain.EventExit, map[string]any{"total_time_on_site": elapsed})
}

// Resume recomputes time-on-site after a visibility gain.
func (t *Tracker) Resume() {
	t.updateTimeOnSite()
}

// Close emits the final exit event, stops the tick loop and waits for
// in-flight deliveries.
func (t *Tracker) Close() {
	elapsed := t.updateTimeOnSite()
	t.Track(domain.EventExit, map[string]any{"total_time_on_site": elapsed, "final": true})

	t.mu.Lock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
	t.wg.Wait()
}

// Track augments the payload with the accumulated session context and hands
// the event to the sink without blocking the caller.
func (t *Tracker) Track(eventType domain.EventType, payload map[string]any) {
	t.mu.Lock()
	augmented := make(map[string]any, len(payload)+4)
	for k, v := range payload {
		augmented[k] = v
	}
	augmented["time_on_site"] = t.elapsedLocked()
	augmented["categories_visited"] = append([]string(nil), t.categoryVisited...)
	augmented["searches_performed"] = append([]SearchRecord(nil), t.searches...)
	augmented["products_viewed"] = append([]ProductViewRecord(nil), t.views...)
	event := domain.JourneyEvent{
		Type:      eventType,
		Payload:   augmented,
		SessionID: t.sessionID,
	}
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := t.sink.Deliver(ctx, event); err != nil {
			t.logger.Warn("journey event delivery failed",
				zap.String("event", string(eventType)),
				zap.Error(err))
		}
	}()
}

// RecordSearch appends the term to the bounded search history, then emits a
// search event.
func (t *Tracker) RecordSearch(query string, resultsCount int) {
	t.mu.Lock()
	t.searches = append(t.searches, SearchRecord{Query: query, Timestamp: t.now()})
	if len(t.searches) > maxSearches {
		t.searches = t.searches[len(t.searches)-maxSearches:]
	}
	t.mu.Unlock()

	t.Track(domain.EventSearch, map[string]any{
		"search_query":  query,
		"results_count": resultsCount,
	})
}

// RecordCategoryVisit adds the category to the visited set, then emits a
// category_visit event.
func (t *Tracker) RecordCategoryVisit(slug, name string) {
	t.mu.Lock()
	if _, seen := t.categorySet[slug]; !seen {
		t.categorySet[slug] = struct{}{}
		t.categoryVisited = append(t.categoryVisited, slug)
	}
	t.mu.Unlock()

	t.Track(domain.EventCategoryVisit, map[string]any{
		"category_slug": slug,
		"category_name": name,
	})
}

// RecordProductView appends to the bounded view history, then emits a
// product_view event.
func (t *Tracker) RecordProductView(productID int64, productType, name string) {
	t.mu.Lock()
	t.views = append(t.views, ProductViewRecord{
		ID:        productID,
		Type:      productType,
		Name:      name,
		Timestamp: t.now(),
	})
	if len(t.views) > maxProductViews {
		t.views = t.views[len(t.views)-maxProductViews:]
	}
	t.mu.Unlock()

	t.Track(domain.EventProductView, map[string]any{
		"product_id":   productID,
		"product_type": productType,
		"product_name": name,
	})
}

// HandleCartChange is the cart store subscriber: it maps the mutation action
// to its journey event.
func (t *Tracker) HandleCartChange(change domain.CartChanged) {
	eventType, ok := cartEventFor(change.Action)
	if !ok {
		return
	}
	t.Track(eventType, map[string]any{
		"cart_count":    change.Count,
		"action_detail": change.Detail,
	})
}

func cartEventFor(action domain.CartAction) (domain.EventType, bool) {
	switch action {
	case domain.CartActionAdd:
		return domain.EventCartItemAdded, true
	case domain.CartActionUpdate:
		return domain.EventCartItemUpdated, true
	case domain.CartActionRemove:
		return domain.EventCartItemRemoved, true
	case domain.CartActionClear:
		return domain.EventCartCleared, true
	}
	return "", false
}

func (t *Tracker) updateTimeOnSite() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeOnSite = t.elapsedLocked()
	return t.timeOnSite
}

func (t *Tracker) elapsedLocked() int {
	if t.start.IsZero() {
		return 0
	}
	return int(t.now().Sub(t.start) / time.Second)
}
