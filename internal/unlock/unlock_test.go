package unlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
	"github.com/nycolasmancini/pmcell-storefront/internal/state"
)

type mockLiberator struct {
	m       sync.Mutex
	calls   []string
	err     error
	release chan struct{} // when set, LiberatePrices blocks until closed
}

func (l *mockLiberator) LiberatePrices(_ context.Context, whatsapp string, _ time.Time) error {
	l.m.Lock()
	l.calls = append(l.calls, whatsapp)
	release := l.release
	err := l.err
	l.m.Unlock()
	if release != nil {
		<-release
	}
	return err
}

func (l *mockLiberator) callCount() int {
	l.m.Lock()
	defer l.m.Unlock()
	return len(l.calls)
}

type mockRecorder struct {
	m      sync.Mutex
	events []domain.EventType
	last   map[string]any
}

func (r *mockRecorder) Track(eventType domain.EventType, payload map[string]any) {
	r.m.Lock()
	defer r.m.Unlock()
	r.events = append(r.events, eventType)
	r.last = payload
}

func TestValidateNumber(t *testing.T) {
	cases := []struct {
		number string
		valid  bool
	}{
		{"11987654321", true},  // 11 digits, mobile marker
		{"1187654321", true},   // 10 digits
		{"987654321", false},   // 9 digits
		{"05987654321", false}, // area code 05
		{"11887654321", false}, // 11 digits but no mobile marker
		{"119876543210", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateNumber(tc.number)
		if tc.valid {
			assert.NoError(t, err, "number %q should validate", tc.number)
		} else {
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr, "number %q should be rejected", tc.number)
		}
	}
}

func TestCleanNumber(t *testing.T) {
	assert.Equal(t, "11987654321", CleanNumber("(11) 98765-4321"))
	assert.Equal(t, "1187654321", CleanNumber("11 8765 4321"))
	assert.Equal(t, "", CleanNumber("abc"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", FormatNumber("11987654321"))
	assert.Equal(t, "(11) 8765-4321", FormatNumber("1187654321"))
	assert.Equal(t, "123", FormatNumber("123"))
}

func TestSubmit_Success(t *testing.T) {
	store := state.NewMemoryStore()
	liberator := &mockLiberator{}
	recorder := &mockRecorder{}
	g := NewGate(store, liberator, recorder)
	ctx := context.Background()

	require.False(t, g.IsUnlocked(ctx))
	require.True(t, g.RequestUnlock(ctx))

	require.NoError(t, g.Submit(ctx, "(11) 98765-4321"))

	assert.True(t, g.IsUnlocked(ctx))
	assert.False(t, g.RequestUnlock(ctx))
	assert.Equal(t, "11987654321", g.ContactNumber(ctx))
	assert.Equal(t, []string{"11987654321"}, liberator.calls)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, domain.EventPriceUnlock, recorder.events[0])
	assert.Equal(t, "11987654321", recorder.last["whatsapp"])
}

func TestSubmit_ValidationFailureChangesNothing(t *testing.T) {
	store := state.NewMemoryStore()
	liberator := &mockLiberator{}
	g := NewGate(store, liberator, &mockRecorder{})
	ctx := context.Background()

	err := g.Submit(ctx, "987654321")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.False(t, g.IsUnlocked(ctx))
	assert.Zero(t, liberator.callCount(), "backend must not be called on validation failure")
}

func TestSubmit_BackendFailureLeavesLocked(t *testing.T) {
	store := state.NewMemoryStore()
	liberator := &mockLiberator{err: assert.AnError}
	recorder := &mockRecorder{}
	g := NewGate(store, liberator, recorder)
	ctx := context.Background()

	err := g.Submit(ctx, "11987654321")
	require.ErrorIs(t, err, ErrSubmissionFailed)

	assert.False(t, g.IsUnlocked(ctx))
	assert.Empty(t, g.ContactNumber(ctx))
	assert.Empty(t, recorder.events)
}

func TestSubmit_OverlappingCallIsNoop(t *testing.T) {
	store := state.NewMemoryStore()
	release := make(chan struct{})
	liberator := &mockLiberator{release: release}
	g := NewGate(store, liberator, &mockRecorder{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- g.Submit(ctx, "11987654321")
	}()

	require.Eventually(t, func() bool {
		return liberator.callCount() == 1
	}, time.Second, 10*time.Millisecond)

	// Second submit while the first is in flight: no-op, no extra call.
	require.NoError(t, g.Submit(ctx, "11987654321"))
	assert.Equal(t, 1, liberator.callCount())

	close(release)
	require.NoError(t, <-done)
	assert.True(t, g.IsUnlocked(ctx))
}

func TestIsUnlocked_ExpiresWithTTL(t *testing.T) {
	store := state.NewMemoryStore()
	g := NewGate(store, &mockLiberator{}, &mockRecorder{})
	ctx := context.Background()

	require.NoError(t, g.Submit(ctx, "11987654321"))
	require.True(t, g.IsUnlocked(ctx))

	// The store enforces the 7-day expiry; simulate it by dropping the keys.
	require.NoError(t, store.Delete(ctx, "prices_unlocked"))
	require.NoError(t, store.Delete(ctx, "user_whatsapp"))
	assert.False(t, g.IsUnlocked(ctx))
}
