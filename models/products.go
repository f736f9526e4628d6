package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
)

// Product represents a product in the catalog.
// Category is a snapshot of the category the product was saved with.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	Photo     string          `json:"photo,omitempty"`
	Category  Category        `json:"category"`
}

// HasID reports whether the product has been persisted.
func (p *Product) HasID() bool {
	return p.ID != ""
}

// Uppercased returns a copy of p with its name upper-cased.
func (p Product) Uppercased() Product {
	p.Name = strings.ToUpper(p.Name)
	return p
}
