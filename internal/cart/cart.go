// Package cart maintains the locally persisted cart snapshot, the single
// source of truth for cart contents before checkout.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
	"github.com/nycolasmancini/pmcell-storefront/internal/state"
)

const stateKey = "cart"

var ErrNonPositiveQuantity = errors.New("cart: quantity must be positive")

// Subscriber receives a CartChanged notification after every persisted
// mutation. Subscribers run synchronously, in subscription order, and must
// not call back into the Store.
type Subscriber func(domain.CartChanged)

type Store struct {
	mu          sync.Mutex
	store       state.Store
	subscribers []Subscriber
	now         func() time.Time
}

func NewStore(store state.Store) *Store {
	return &Store{store: store, now: time.Now}
}

func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Add merges a line into the cart. Lines with the same product+variant key
// merge by summing quantity; a new line records its AddedAt.
func (s *Store) Add(ctx context.Context, productID int64, productType string, quantity int, variantID *int64) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		return err
	}

	key := domain.LineKey(productID, variantID)
	merged := false
	for i := range snapshot {
		if snapshot[i].Key == key {
			snapshot[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		snapshot = append(snapshot, domain.CartLineItem{
			Key:         key,
			ProductID:   productID,
			ProductType: productType,
			VariantID:   variantID,
			Quantity:    quantity,
			AddedAt:     s.now(),
		})
	}

	if errPersist := s.persist(ctx, snapshot); errPersist != nil {
		return errPersist
	}
	s.notify(domain.CartChanged{
		Count:  snapshot.Count(),
		Action: domain.CartActionAdd,
		Detail: map[string]any{"key": key, "product_id": productID, "quantity": quantity},
	})
	return nil
}

// UpdateQuantity overwrites a line's quantity. A non-positive quantity
// removes the line instead. Unknown keys are a silent no-op.
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range snapshot {
		if snapshot[i].Key == key {
			snapshot[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	if errPersist := s.persist(ctx, snapshot); errPersist != nil {
		return errPersist
	}
	s.notify(domain.CartChanged{
		Count:  snapshot.Count(),
		Action: domain.CartActionUpdate,
		Detail: map[string]any{"key": key, "quantity": quantity},
	})
	return nil
}

// Remove drops the line with the given key. Absent keys are a silent no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		return err
	}

	filtered := snapshot[:0:0]
	for _, line := range snapshot {
		if line.Key != key {
			filtered = append(filtered, line)
		}
	}
	if len(filtered) == len(snapshot) {
		return nil
	}

	if errPersist := s.persist(ctx, filtered); errPersist != nil {
		return errPersist
	}
	s.notify(domain.CartChanged{
		Count:  filtered.Count(),
		Action: domain.CartActionRemove,
		Detail: map[string]any{"key": key},
	})
	return nil
}

// Clear deletes the whole persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, stateKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.notify(domain.CartChanged{Count: 0, Action: domain.CartActionClear})
	return nil
}

// Snapshot returns the current persisted lines, empty if none.
func (s *Store) Snapshot(ctx context.Context) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Count sums quantities across all lines, 0 for an empty cart.
func (s *Store) Count(ctx context.Context) (int, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snapshot.Count(), nil
}

func (s *Store) load(ctx context.Context) (domain.CartSnapshot, error) {
	raw, err := s.store.Get(ctx, stateKey)
	if errors.Is(err, state.ErrNotFound) {
		return domain.CartSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var snapshot domain.CartSnapshot
	if errUnmarshal := json.Unmarshal([]byte(raw), &snapshot); errUnmarshal != nil {
		return nil, fmt.Errorf("parse cart: %w", errUnmarshal)
	}
	return snapshot, nil
}

func (s *Store) persist(ctx context.Context, snapshot domain.CartSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if errSet := s.store.Set(ctx, stateKey, string(data), 0); errSet != nil {
		return fmt.Errorf("persist cart: %w", errSet)
	}
	return nil
}

func (s *Store) notify(event domain.CartChanged) {
	for _, fn := range s.subscribers {
		fn(event)
	}
}
