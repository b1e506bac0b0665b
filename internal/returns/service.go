package returns

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/sales"
	"github.com/shoepoint/shoepoint/internal/shared"
)

// SalesPort abstracts the sales log operations return processing needs.
type SalesPort interface {
	Sale(ctx context.Context, id string) (sales.SaleRecord, error)
	SalesLog(ctx context.Context) ([]sales.SaleRecord, error)
	ApplyReturn(ctx context.Context, saleID string, ref sales.ReturnRef) (sales.SaleRecord, error)
}

// InventoryPort abstracts the stock increment applied on a return.
type InventoryPort interface {
	ApplyDelta(ctx context.Context, productID int64, delta int) (catalog.Product, error)
}

// Service validates and records return transactions.
type Service struct {
	store     store.Store
	sales     SalesPort
	inventory InventoryPort
	bus       *shared.Bus
}

// NewService builds Service. bus may be nil when no subscribers exist.
func NewService(st store.Store, salesPort SalesPort, inventory InventoryPort, bus *shared.Bus) *Service {
	return &Service{store: st, sales: salesPort, inventory: inventory, bus: bus}
}

// ProcessReturn records a return against a prior sale. Steps run in a fixed
// order: sale lookup, over-return validation, ledger append, stock increment,
// sale update. Validation failures mutate nothing. The store offers no
// cross-collection transaction, so the over-return bound is re-validated
// against a fresh read immediately before the ledger write; mid-sequence
// persistence failures are compensated best effort.
func (s *Service) ProcessReturn(ctx context.Context, input ProcessReturnInput) (ReturnRecord, error) {
	if input.Quantity <= 0 {
		return ReturnRecord{}, ErrInvalidQuantity
	}

	sale, err := s.sales.Sale(ctx, input.SaleID)
	if err != nil {
		return ReturnRecord{}, err
	}

	returned, err := s.totalReturned(ctx, input.SaleID)
	if err != nil {
		return ReturnRecord{}, err
	}
	if returned+input.Quantity > sale.Quantity {
		return ReturnRecord{}, overReturnError(sale.Quantity - returned)
	}

	now := time.Now().UTC()
	reason := input.Reason
	if reason == "" {
		reason = DefaultReason
	}
	record := ReturnRecord{
		ID:               uuid.NewString(),
		SaleID:           sale.ID,
		ProductID:        input.ProductID,
		ProductName:      sale.ProductName,
		Size:             sale.Size,
		Color:            sale.Color,
		Quantity:         input.Quantity,
		OriginalQuantity: sale.Quantity,
		Reason:           reason,
		RefundAmount:     sale.UnitPrice * float64(input.Quantity),
		ProcessedBy:      DefaultProcessedBy,
		ProcessedAt:      now,
		Notes:            input.Notes,
	}

	// Re-read and re-check right before the write to bound the race between
	// concurrent returns for the same sale. Two requests can still pass the
	// first check together; this narrows the window, it cannot close it.
	ledger, err := s.ledger(ctx)
	if err != nil {
		return ReturnRecord{}, err
	}
	returned = 0
	for _, r := range ledger {
		if r.SaleID == input.SaleID {
			returned += r.Quantity
		}
	}
	if returned+input.Quantity > sale.Quantity {
		return ReturnRecord{}, overReturnError(sale.Quantity - returned)
	}

	ledger = append(ledger, record)
	if err := s.store.Save(ctx, store.CollectionReturns, ledger); err != nil {
		return ReturnRecord{}, err
	}

	if _, err := s.inventory.ApplyDelta(ctx, input.ProductID, input.Quantity); err != nil {
		s.removeRecord(ctx, record.ID)
		return ReturnRecord{}, err
	}

	ref := sales.ReturnRef{
		ReturnID:     record.ID,
		Quantity:     record.Quantity,
		RefundAmount: record.RefundAmount,
		ProcessedAt:  now,
	}
	if _, err := s.sales.ApplyReturn(ctx, sale.ID, ref); err != nil {
		_, _ = s.inventory.ApplyDelta(ctx, input.ProductID, -input.Quantity)
		s.removeRecord(ctx, record.ID)
		return ReturnRecord{}, err
	}

	s.bus.Publish(ctx, shared.ReturnProcessed{
		ReturnID:  record.ID,
		SaleID:    record.SaleID,
		ProductID: record.ProductID,
		Quantity:  record.Quantity,
		Refund:    record.RefundAmount,
		At:        now,
	})
	return record, nil
}

// ReturnableSales lists every sale that still has returnable quantity,
// annotated with the remaining amount.
func (s *Service) ReturnableSales(ctx context.Context) ([]ReturnableSale, error) {
	log, err := s.sales.SalesLog(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	bySale := make(map[string]int, len(ledger))
	for _, r := range ledger {
		bySale[r.SaleID] += r.Quantity
	}
	out := make([]ReturnableSale, 0, len(log))
	for _, sale := range log {
		returned := bySale[sale.ID]
		if returned >= sale.Quantity {
			continue
		}
		out = append(out, ReturnableSale{
			SaleRecord:         sale,
			AvailableForReturn: sale.Quantity - returned,
			TotalReturned:      returned,
		})
	}
	return out, nil
}

// ReturnHistory lists all returns, most recently processed first.
func (s *Service) ReturnHistory(ctx context.Context) ([]ReturnRecord, error) {
	ledger, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].ProcessedAt.After(ledger[j].ProcessedAt)
	})
	return ledger, nil
}

func (s *Service) ledger(ctx context.Context) ([]ReturnRecord, error) {
	var ledger []ReturnRecord
	if _, err := s.store.Load(ctx, store.CollectionReturns, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *Service) totalReturned(ctx context.Context, saleID string) (int, error) {
	ledger, err := s.ledger(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range ledger {
		if r.SaleID == saleID {
			total += r.Quantity
		}
	}
	return total, nil
}

// removeRecord drops a just-written return record during compensation.
func (s *Service) removeRecord(ctx context.Context, id string) {
	ledger, err := s.ledger(ctx)
	if err != nil {
		return
	}
	for i := range ledger {
		if ledger[i].ID == id {
			ledger = append(ledger[:i], ledger[i+1:]...)
			_ = s.store.Save(ctx, store.CollectionReturns, ledger)
			return
		}
	}
}

func overReturnError(available int) error {
	if available == 1 {
		return fmt.Errorf("%w: only 1 item available for return", ErrOverReturn)
	}
	return fmt.Errorf("%w: only %d items available for return", ErrOverReturn, available)
}
