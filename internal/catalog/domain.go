// Package catalog owns the product catalog and the inventory ledger: the
// mapping from product identity to stock count, the sale/return stock deltas
// applied against it, and the low/out-of-stock classification.
package catalog

import (
	"errors"
	"time"
)

// StockStatus classifies a product's stock level.
type StockStatus string

const (
	// StockStatusOut means no units remain.
	StockStatusOut StockStatus = "OUT_OF_STOCK"
	// StockStatusLow means stock is above zero but below the configured threshold.
	StockStatusLow StockStatus = "LOW_STOCK"
	// StockStatusIn means stock is at or above the threshold.
	StockStatusIn StockStatus = "IN_STOCK"
)

// DefaultLowStockThreshold is used when the service is configured with a
// non-positive threshold.
const DefaultLowStockThreshold = 2

// Product is a catalog entry. Stock is authoritative here and only moves
// through ApplyDelta; deleting a product never rewrites historical sales or
// returns that reference it.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// ProductInput carries the editable fields for create/update.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Image       string   `json:"image"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

// Summary aggregates stock figures for the dashboard cards.
type Summary struct {
	ProductCount int `json:"product_count"`
	TotalStock   int `json:"total_stock"`
	LowStock     int `json:"low_stock"`
	OutOfStock   int `json:"out_of_stock"`
}

// ErrProductNotFound indicates the referenced product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock indicates a sale quantity exceeding current stock.
// Wrapped instances state the quantity that would have succeeded.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidQuantity indicates a non-positive quantity or price.
var ErrInvalidQuantity = errors.New("catalog: invalid quantity")

// StatusOf classifies a stock count against the low-stock threshold.
func StatusOf(stock, threshold int) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock < threshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
