package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
	"github.com/nycolasmancini/pmcell-storefront/internal/state"
)

func newTestStore(t *testing.T) (*Store, *[]domain.CartChanged) {
	t.Helper()
	s := NewStore(state.NewMemoryStore())
	var events []domain.CartChanged
	s.Subscribe(func(e domain.CartChanged) {
		events = append(events, e)
	})
	return s, &events
}

func variant(id int64) *int64 { return &id }

func TestAdd_MergesByKey(t *testing.T) {
	s, events := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 2, nil))
	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 1, nil))

	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1, "same key must merge into a single line")
	assert.Equal(t, int64(5), snapshot[0].ProductID)
	assert.Equal(t, 3, snapshot[0].Quantity)

	require.Len(t, *events, 2)
	assert.Equal(t, domain.CartActionAdd, (*events)[0].Action)
	assert.Equal(t, 2, (*events)[0].Count)
	assert.Equal(t, 3, (*events)[1].Count)
}

func TestAdd_VariantsGetSeparateLines(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeCaseOrFilm, 1, variant(10)))
	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeCaseOrFilm, 1, variant(11)))
	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 1, nil))

	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 3)
	assert.Equal(t, "5_10", snapshot[0].Key)
	assert.Equal(t, "5_11", snapshot[1].Key)
	assert.Equal(t, "5", snapshot[2].Key)
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	s, events := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 0, nil), ErrNonPositiveQuantity)
	require.ErrorIs(t, s.Add(ctx, 5, domain.ProductTypeAccessory, -3, nil), ErrNonPositiveQuantity)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, *events, "rejected adds must not signal")
}

func TestUpdateQuantity_Overwrites(t *testing.T) {
	s, events := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 2, nil))
	require.NoError(t, s.UpdateQuantity(ctx, "5", 7))

	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, 7, snapshot[0].Quantity)

	last := (*events)[len(*events)-1]
	assert.Equal(t, domain.CartActionUpdate, last.Action)
	assert.Equal(t, 7, last.Count)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, quantity := range []int{0, -4} {
		s, events := newTestStore(t)
		ctx := context.Background()

		require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 2, nil))
		require.NoError(t, s.UpdateQuantity(ctx, "5", quantity))

		snapshot, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshot)

		last := (*events)[len(*events)-1]
		assert.Equal(t, domain.CartActionRemove, last.Action)
	}
}

func TestUpdateQuantity_UnknownKeyIsSilent(t *testing.T) {
	s, events := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 2, nil))
	before := len(*events)

	require.NoError(t, s.UpdateQuantity(ctx, "99", 3))
	assert.Len(t, *events, before, "unknown key must not signal")

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRemove_AbsentKeyIsSilent(t *testing.T) {
	s, events := newTestStore(t)
	require.NoError(t, s.Remove(context.Background(), "42"))
	assert.Empty(t, *events)
}

func TestClear_EmptiesCart(t *testing.T) {
	s, events := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 1, domain.ProductTypeAccessory, 5, nil))
	require.NoError(t, s.Add(ctx, 2, domain.ProductTypeAccessory, 10, nil))
	require.NoError(t, s.Clear(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot)

	last := (*events)[len(*events)-1]
	assert.Equal(t, domain.CartActionClear, last.Action)
	assert.Zero(t, last.Count)
}

func TestSnapshot_RoundTripPreservesOrder(t *testing.T) {
	store := state.NewMemoryStore()
	s := NewStore(store)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 3, domain.ProductTypeAccessory, 4, nil))
	require.NoError(t, s.Add(ctx, 1, domain.ProductTypeCaseOrFilm, 2, variant(7)))
	require.NoError(t, s.Add(ctx, 2, domain.ProductTypeAccessory, 9, nil))

	// A second store over the same persistence reads back the identical
	// ordered sequence.
	reread := NewStore(store)
	snapshot, err := reread.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 3)
	assert.Equal(t, []string{"3", "1_7", "2"}, []string{snapshot[0].Key, snapshot[1].Key, snapshot[2].Key})
	assert.Equal(t, 4, snapshot[0].Quantity)
	assert.Equal(t, 2, snapshot[1].Quantity)
	assert.Equal(t, 9, snapshot[2].Quantity)
}

func TestEndToEnd_AddMergeRemove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 2, nil))
	require.NoError(t, s.Add(ctx, 5, domain.ProductTypeAccessory, 1, nil))

	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(5), snapshot[0].ProductID)
	assert.Equal(t, 3, snapshot[0].Quantity)

	require.NoError(t, s.Remove(ctx, "5"))

	snapshot, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
