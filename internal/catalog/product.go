package catalog

import (
	"github.com/carlosxfelipe/my-food/internal/money"
)

// Product is a read-only catalog entry. The catalog is static for the
// lifetime of the process; products are copied out, never mutated.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	SKU         string      `json:"sku"`
	Description string      `json:"description,omitempty"`
	Price       money.Money `json:"price"`
	Image       string      `json:"image"`
	Rating      float64     `json:"rating,omitempty"`
	Stock       int32       `json:"stock"`
	Tags        []string    `json:"tags,omitempty"`
}
