package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

type liberatePricesRequest struct {
	WhatsApp  string    `json:"whatsapp"`
	Timestamp time.Time `json:"timestamp"`
}

// LiberatePrices submits a cleaned contact number for price liberation.
func (c *Client) LiberatePrices(ctx context.Context, whatsapp string, timestamp time.Time) error {
	return c.post(ctx, "/api/liberate-prices/", liberatePricesRequest{
		WhatsApp:  whatsapp,
		Timestamp: timestamp,
	}, nil)
}

// Me returns the customer tied to the current session, if the backend knows
// one.
func (c *Client) Me(ctx context.Context) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.get(ctx, "/api/customers/me/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createOrderRequest struct {
	domain.CheckoutForm
	Cart domain.CartSnapshot `json:"cart"`
}

// CreateOrder submits the local cart as an order.
func (c *Client) CreateOrder(ctx context.Context, form domain.CheckoutForm, cart domain.CartSnapshot) (*domain.Order, error) {
	var out domain.Order
	if err := c.post(ctx, "/api/orders/", createOrderRequest{CheckoutForm: form, Cart: cart}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, page int) (*domain.Paginated[domain.Order], error) {
	if page < 1 {
		page = 1
	}
	var out domain.Paginated[domain.Order]
	if err := c.get(ctx, "/api/orders/?page="+strconv.Itoa(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := c.get(ctx, fmt.Sprintf("/api/orders/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
