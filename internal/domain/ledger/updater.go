package ledger

import (
	"time"

	"shopledger/internal/core/types"
)

// FieldDeltas holds per-column increments for one ledger apply. Both the
// in-memory Apply and the repository's atomic UPDATE are driven by this
// mapping, so the two paths cannot disagree on sign conventions.
type FieldDeltas struct {
	PurchasesQuantity int64
	SalesQuantity     int64
	InStock           int64
	PurchasesPrice    types.Money
	SalesPrice        types.Money
	Profit            types.Money
}

// IsZero reports whether the increments change nothing.
func (f FieldDeltas) IsZero() bool {
	return f.PurchasesQuantity == 0 && f.SalesQuantity == 0 && f.InStock == 0 &&
		f.PurchasesPrice.IsZero() && f.SalesPrice.IsZero() && f.Profit.IsZero()
}

// Updater maps signed deltas onto aggregate counters.
// No bounds checking is performed: negative deltas from deletions or
// decreasing updates are applied directly and can drive totals negative.
type Updater struct {
	convention ProfitConvention
}

// NewUpdater creates an updater with the given profit convention.
func NewUpdater(convention ProfitConvention) *Updater {
	return &Updater{convention: convention}
}

// Convention returns the profit convention in effect.
func (u *Updater) Convention() ProfitConvention {
	return u.convention
}

// FieldDeltas translates a (delta, kind) pair into per-column increments.
// In-stock moves with purchases and against sales, keeping the aggregate
// balanced: in_stock == purchases − sales after every apply.
func (u *Updater) FieldDeltas(delta Delta, kind Kind) FieldDeltas {
	var fd FieldDeltas

	switch kind {
	case KindPurchase:
		fd.PurchasesQuantity = delta.Quantity
		fd.InStock = delta.Quantity
		fd.PurchasesPrice = delta.TotalPrice
		fd.Profit = delta.TotalPrice.Neg()
	case KindSale:
		fd.SalesQuantity = delta.Quantity
		fd.InStock = -delta.Quantity
		fd.SalesPrice = delta.TotalPrice
		if u.convention == ProfitNet {
			fd.Profit = delta.TotalPrice
		} else {
			fd.Profit = delta.TotalPrice.Neg()
		}
	}

	return fd
}

// Apply mutates the aggregate in place with the given delta. The caller is
// responsible for persisting the aggregate in the same transaction as the
// triggering line-item write. A nil aggregate is a benign no-op: the row is
// expected to pre-exist per model, and a missing row must not fail the
// enclosing transaction.
func (u *Updater) Apply(agg *Aggregate, delta Delta, kind Kind) {
	if agg == nil {
		return
	}

	fd := u.FieldDeltas(delta, kind)
	agg.TotalPurchasesQuantity += fd.PurchasesQuantity
	agg.TotalSalesQuantity += fd.SalesQuantity
	agg.TotalInStock += fd.InStock
	agg.TotalPurchasesPrice = agg.TotalPurchasesPrice.Add(fd.PurchasesPrice)
	agg.TotalSalesPrice = agg.TotalSalesPrice.Add(fd.SalesPrice)
	agg.Profit = agg.Profit.Add(fd.Profit)
	agg.UpdatedAt = time.Now().UTC()
}
