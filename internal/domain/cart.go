package domain

import (
	"fmt"
	"time"
)

// CartLineItem is one row of the locally persisted cart. Key is unique per
// product+variant pair; two additions with the same key merge by summing
// quantity.
type CartLineItem struct {
	Key         string    `json:"key"`
	ProductID   int64     `json:"product_id"`
	ProductType string    `json:"product_type"`
	VariantID   *int64    `json:"variant_id,omitempty"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"added_at"`
}

// CartSnapshot is the full ordered cart, persisted as a whole on every
// mutation.
type CartSnapshot []CartLineItem

// Count sums quantities across all lines.
func (s CartSnapshot) Count() int {
	total := 0
	for _, line := range s {
		total += line.Quantity
	}
	return total
}

// LineKey builds the snapshot key for a product and optional variant.
func LineKey(productID int64, variantID *int64) string {
	if variantID != nil {
		return fmt.Sprintf("%d_%d", productID, *variantID)
	}
	return fmt.Sprintf("%d", productID)
}
