package tracker

import (
	"context"

	"github.com/nycolasmancini/pmcell-storefront/internal/api"
	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

// APISink posts events to the backend analytics endpoint. The default sink.
type APISink struct {
	client *api.Client
}

func NewAPISink(client *api.Client) *APISink {
	return &APISink{client: client}
}

func (s *APISink) Deliver(ctx context.Context, event domain.JourneyEvent) error {
	return s.client.TrackJourney(ctx, event)
}
