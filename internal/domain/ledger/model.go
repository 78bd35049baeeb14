// Package ledger provides the stock ledger: per-model running totals that must
// stay consistent with the purchase and sale line items that produced them.
package ledger

import (
	"fmt"
	"time"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// Kind identifies which ledger side a delta belongs to.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindSale     Kind = "sale"
)

// Valid reports whether k is a known ledger kind.
func (k Kind) Valid() bool {
	return k == KindPurchase || k == KindSale
}

// ProfitConvention selects how the profit counter reacts to price deltas.
type ProfitConvention int

const (
	// ProfitLegacy subtracts the price delta for both purchases and sales.
	// This matches the original bookkeeping, where a sale decreases profit.
	// Almost certainly backwards for sales; kept as the default so the
	// ledger reproduces historical figures. See ProfitNet.
	ProfitLegacy ProfitConvention = iota

	// ProfitNet subtracts purchase price deltas and adds sale price deltas,
	// so profit tracks totalSalesPrice - totalPurchasesPrice.
	ProfitNet
)

// Aggregate is the per-model running-totals row of the stock ledger.
// One row per product model; rows are created when the model is created and
// are mutated exclusively through the Updater plus a transactional commit.
type Aggregate struct {
	// ModelID is the primary key (references catalog model)
	ModelID id.ID `db:"model_id" json:"modelId"`

	// Cumulative quantities. Deletions and decreasing updates apply inverse
	// deltas, so these can decrease as well as increase.
	TotalPurchasesQuantity int64 `db:"total_purchases_quantity" json:"totalPurchasesQuantity"`
	TotalSalesQuantity     int64 `db:"total_sales_quantity" json:"totalSalesQuantity"`

	// TotalInStock is maintained incrementally and must always equal
	// TotalPurchasesQuantity - TotalSalesQuantity. May transiently go
	// negative when sales are recorded before matching purchases.
	TotalInStock int64 `db:"total_in_stock" json:"totalInStock"`

	// Cumulative money spent acquiring stock / received from sales.
	TotalPurchasesPrice types.Money `db:"total_purchases_price" json:"totalPurchasesPrice"`
	TotalSalesPrice     types.Money `db:"total_sales_price" json:"totalSalesPrice"`

	// Profit is a running subtraction of applied price deltas, per the
	// configured ProfitConvention.
	Profit types.Money `db:"profit" json:"profit"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAggregate creates a zero aggregate for a model.
func NewAggregate(modelID id.ID) *Aggregate {
	return &Aggregate{
		ModelID:   modelID,
		UpdatedAt: time.Now().UTC(),
	}
}

// CheckInvariant verifies totalInStock == purchases - sales.
func (a *Aggregate) CheckInvariant() error {
	if a.TotalInStock != a.TotalPurchasesQuantity-a.TotalSalesQuantity {
		return fmt.Errorf("stock aggregate %s out of balance: in_stock=%d purchases=%d sales=%d",
			a.ModelID, a.TotalInStock, a.TotalPurchasesQuantity, a.TotalSalesQuantity)
	}
	return nil
}
