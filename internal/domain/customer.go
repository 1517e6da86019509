package domain

import "time"

type Customer struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name,omitempty"`
	WhatsApp         string     `json:"whatsapp"`
	PricesUnlocked   bool       `json:"prices_unlocked"`
	PricesUnlockedAt *time.Time `json:"prices_unlocked_at,omitempty"`
	Company          string     `json:"company,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	ModelName   string `json:"model_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type Order struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"order_number"`
	Customer    *Customer   `json:"customer,omitempty"`
	Status      string      `json:"status"`
	Subtotal    string      `json:"subtotal"`
	Discount    string      `json:"discount,omitempty"`
	Total       string      `json:"total"`
	Notes       string      `json:"notes,omitempty"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CheckoutForm is the payload for creating an order from the local cart.
type CheckoutForm struct {
	Name            string `json:"name"`
	WhatsAppConfirm string `json:"whatsapp_confirmation"`
	Notes           string `json:"notes,omitempty"`
}
