package api

import (
	"context"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

// TrackJourney delivers one augmented journey event.
func (c *Client) TrackJourney(ctx context.Context, event domain.JourneyEvent) error {
	return c.post(ctx, "/api/track-journey/", event, nil)
}

// EstimatedItem is one cart line priced by the backend.
type EstimatedItem struct {
	Key       string `json:"key"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type estimateCartRequest struct {
	Cart domain.CartSnapshot `json:"cart"`
}

type estimateCartResponse struct {
	Items []EstimatedItem `json:"items"`
}

// EstimateCartItems asks the backend to price the given cart lines.
func (c *Client) EstimateCartItems(ctx context.Context, cart domain.CartSnapshot) ([]EstimatedItem, error) {
	var out estimateCartResponse
	if err := c.post(ctx, "/api/get-cart-items/", estimateCartRequest{Cart: cart}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type abandonedCartReport struct {
	Cart           domain.CartSnapshot `json:"cart_data"`
	EstimatedValue string              `json:"estimated_value"`
	SessionID      string              `json:"session_id"`
}

// ReportAbandonedCart delivers the abandoned cart snapshot with its estimated
// value.
func (c *Client) ReportAbandonedCart(ctx context.Context, cart domain.CartSnapshot, estimatedValue, sessionID string) error {
	return c.post(ctx, "/api/track-abandoned-cart/", abandonedCartReport{
		Cart:           cart,
		EstimatedValue: estimatedValue,
		SessionID:      sessionID,
	}, nil)
}
