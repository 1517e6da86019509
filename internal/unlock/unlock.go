// Package unlock gates wholesale price visibility behind a WhatsApp-number
// capture flow, persisted with a 7-day expiry.
package unlock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
	"github.com/nycolasmancini/pmcell-storefront/internal/state"
)

const (
	unlockKey  = "prices_unlocked"
	contactKey = "user_whatsapp"
	unlockTTL  = 7 * 24 * time.Hour
)

// ErrSubmissionFailed means the liberation backend rejected or failed the
// request; prices stay locked and the user may retry.
var ErrSubmissionFailed = errors.New("unlock: price liberation request failed")

// ValidationError carries the user-visible inline message for a malformed
// contact number.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Liberator is the slice of the API client the gate needs.
type Liberator interface {
	LiberatePrices(ctx context.Context, whatsapp string, timestamp time.Time) error
}

// Recorder receives the price_unlock journey event after a successful
// submission.
type Recorder interface {
	Track(eventType domain.EventType, payload map[string]any)
}

type Gate struct {
	store   state.Store
	backend Liberator
	tracker Recorder
	now     func() time.Time

	mu         sync.Mutex
	submitting bool
}

func NewGate(store state.Store, backend Liberator, tracker Recorder) *Gate {
	return &Gate{
		store:   store,
		backend: backend,
		tracker: tracker,
		now:     time.Now,
	}
}

// IsUnlocked reports whether a non-expired unlock entry exists. Expiry is
// enforced by the state store, not here.
func (g *Gate) IsUnlocked(ctx context.Context) bool {
	value, err := g.store.Get(ctx, unlockKey)
	return err == nil && value == "true"
}

// ContactNumber returns the captured number, empty once expired or absent.
func (g *Gate) ContactNumber(ctx context.Context) string {
	value, err := g.store.Get(ctx, contactKey)
	if err != nil {
		return ""
	}
	return value
}

// RequestUnlock opens the capture flow. It changes no state; it only tells
// the caller whether capture is still needed.
func (g *Gate) RequestUnlock(ctx context.Context) bool {
	return !g.IsUnlocked(ctx)
}

// Submit validates and submits a contact number. On success the unlock and
// contact entries are persisted with a 7-day TTL and a price_unlock event is
// emitted. While one submission is outstanding, further calls are no-ops.
func (g *Gate) Submit(ctx context.Context, rawNumber string) error {
	cleaned := CleanNumber(rawNumber)
	if err := ValidateNumber(cleaned); err != nil {
		return err
	}

	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return nil
	}
	g.submitting = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.submitting = false
		g.mu.Unlock()
	}()

	if err := g.backend.LiberatePrices(ctx, cleaned, g.now()); err != nil {
		return errors.Join(ErrSubmissionFailed, err)
	}

	if err := g.store.Set(ctx, unlockKey, "true", unlockTTL); err != nil {
		return fmt.Errorf("persist unlock state: %w", err)
	}
	if err := g.store.Set(ctx, contactKey, cleaned, unlockTTL); err != nil {
		return fmt.Errorf("persist contact number: %w", err)
	}

	g.tracker.Track(domain.EventPriceUnlock, map[string]any{
		"whatsapp":  cleaned,
		"timestamp": g.now().Format(time.RFC3339),
	})
	return nil
}

// CleanNumber strips everything but digits.
func CleanNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateNumber checks a cleaned Brazilian WhatsApp number: 10 or 11 digits,
// area code 11-99, and for 11 digits the mobile marker '9' in third place.
func ValidateNumber(cleaned string) error {
	if len(cleaned) < 10 || len(cleaned) > 11 {
		return &ValidationError{Message: "number must have 10 or 11 digits: (XX) XXXXX-XXXX"}
	}
	areaCode, err := strconv.Atoi(cleaned[:2])
	if err != nil || areaCode < 11 || areaCode > 99 {
		return &ValidationError{Message: "invalid area code: must be between 11 and 99"}
	}
	if len(cleaned) == 11 && cleaned[2] != '9' {
		return &ValidationError{Message: "11-digit numbers must start with 9 after the area code"}
	}
	return nil
}

// FormatNumber renders a cleaned number for display, (XX) XXXX-XXXX or
// (XX) XXXXX-XXXX. Unrecognized lengths pass through unchanged.
func FormatNumber(number string) string {
	cleaned := CleanNumber(number)
	switch len(cleaned) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", cleaned[:2], cleaned[2:6], cleaned[6:])
	case 11:
		return fmt.Sprintf("(%s) %s-%s", cleaned[:2], cleaned[2:7], cleaned[7:])
	}
	return number
}
