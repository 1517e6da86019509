// Package session issues the per-browser-context identity token that
// correlates anonymous activity across requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nycolasmancini/pmcell-storefront/internal/state"
)

const stateKey = "session_id"

type Provider struct {
	store state.Store
	now   func() time.Time
}

func NewProvider(store state.Store) *Provider {
	return &Provider{store: store, now: time.Now}
}

// GetOrCreate returns the persisted session token, generating and persisting
// one on first use. The token never expires and is immutable once created.
func (p *Provider) GetOrCreate(ctx context.Context) (string, error) {
	id, err := p.store.Get(ctx, stateKey)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, state.ErrNotFound) {
		return "", fmt.Errorf("read session id: %w", err)
	}

	id = newToken(p.now())
	if errSet := p.store.Set(ctx, stateKey, id, 0); errSet != nil {
		return "", fmt.Errorf("persist session id: %w", errSet)
	}
	return id, nil
}

func newToken(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("sess_%d_%s", now.UnixMilli(), suffix)
}
