// Package sales owns the capped, append-only sales log: the audit trail every
// return is validated against.
package sales

import (
	"errors"
	"time"
)

// DefaultLogCap bounds the sales log length. Past the cap the oldest entry is
// discarded; order is newest first.
const DefaultLogCap = 100

// ReturnRef is the reference a processed return leaves on its originating
// sale record.
type ReturnRef struct {
	ReturnID     string    `json:"return_id"`
	Quantity     int       `json:"quantity"`
	RefundAmount float64   `json:"refund_amount"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// SaleRecord is one completed sale transaction. Product name and unit price
// are denormalized snapshots taken at sale time: renaming or repricing the
// product later must not rewrite history.
type SaleRecord struct {
	ID          string      `json:"id"`
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   float64     `json:"unit_price"`
	Total       float64     `json:"total"`
	Size        string      `json:"size,omitempty"`
	Color       string      `json:"color,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Returns     []ReturnRef `json:"returns,omitempty"`
	NetQuantity int         `json:"net_quantity"`
	NetAmount   float64     `json:"net_amount"`
}

// TotalReturned sums the quantities of all returns recorded against the sale.
func (s SaleRecord) TotalReturned() int {
	total := 0
	for _, ref := range s.Returns {
		total += ref.Quantity
	}
	return total
}

// AppendReturn attaches a return reference and recomputes the net figures so
// that NetQuantity = Quantity - sum(returned) and
// NetAmount = Total - sum(refunded) hold exactly.
func (s *SaleRecord) AppendReturn(ref ReturnRef) {
	s.Returns = append(s.Returns, ref)
	returned := 0
	refunded := 0.0
	for _, r := range s.Returns {
		returned += r.Quantity
		refunded += r.RefundAmount
	}
	s.NetQuantity = s.Quantity - returned
	s.NetAmount = s.Total - refunded
}

// RecordSaleInput carries a sale request.
type RecordSaleInput struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Summary aggregates the physical-sales dashboard cards.
type Summary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTransactions int     `json:"total_transactions"`
	TotalStock        int     `json:"total_stock"`
	LowStock          int     `json:"low_stock"`
	OutOfStock        int     `json:"out_of_stock"`
}

// ExportBundle is the JSON document produced by the sales export endpoint.
type ExportBundle struct {
	Sales      []SaleRecord      `json:"sales"`
	Inventory  []InventoryLine   `json:"inventory"`
	ExportDate time.Time         `json:"export_date"`
	Summary    ExportSummaryInfo `json:"summary"`
}

// InventoryLine is the inventory slice of the export bundle.
type InventoryLine struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

// ExportSummaryInfo totals the export bundle.
type ExportSummaryInfo struct {
	TotalSales        float64 `json:"total_sales"`
	TotalTransactions int     `json:"total_transactions"`
	TotalStock        int     `json:"total_stock"`
}

// ErrSaleNotFound indicates the referenced sale id does not exist.
var ErrSaleNotFound = errors.New("sale not found")

// ErrInvalidQuantity indicates a non-positive sale quantity.
var ErrInvalidQuantity = errors.New("sales: quantity must be positive")
