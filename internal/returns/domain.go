// Package returns owns the return ledger: return transactions recorded
// against prior sales, validated so cumulative returns never exceed the
// original sale quantity.
package returns

import (
	"errors"
	"time"

	"github.com/shoepoint/shoepoint/internal/sales"
)

// Defaults applied when a return request omits the fields.
const (
	DefaultReason      = "Customer Request"
	DefaultProcessedBy = "admin"
)

// ReturnRecord is one return transaction. Like sale records it carries
// denormalized snapshots (product name, original quantity, refund at the
// price paid) and is never mutated after creation.
type ReturnRecord struct {
	ID               string    `json:"id"`
	SaleID           string    `json:"sale_id"`
	ProductID        int64     `json:"product_id"`
	ProductName      string    `json:"product_name"`
	Size             string    `json:"size,omitempty"`
	Color            string    `json:"color,omitempty"`
	Quantity         int       `json:"quantity"`
	OriginalQuantity int       `json:"original_quantity"`
	Reason           string    `json:"reason"`
	RefundAmount     float64   `json:"refund_amount"`
	ProcessedBy      string    `json:"processed_by"`
	ProcessedAt      time.Time `json:"processed_at"`
	Notes            string    `json:"notes,omitempty"`
}

// ProcessReturnInput carries a return request.
type ProcessReturnInput struct {
	SaleID    string `json:"sale_id" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// ReturnableSale is the read model driving the "select a sale to return" UI:
// a sale with returnable quantity remaining, annotated with the running
// return figures.
type ReturnableSale struct {
	sales.SaleRecord
	AvailableForReturn int `json:"available_for_return"`
	TotalReturned      int `json:"total_returned"`
}

// ErrOverReturn indicates the requested quantity exceeds what remains
// returnable on the sale. Wrapped instances state the remaining quantity.
var ErrOverReturn = errors.New("return exceeds remaining returnable quantity")

// ErrInvalidQuantity indicates a non-positive return quantity.
var ErrInvalidQuantity = errors.New("returns: quantity must be positive")
