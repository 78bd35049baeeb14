// Package purchases provides the Purchase document: goods acquired into stock.
package purchases

import (
	"context"
	"time"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/entity"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/ledger"
)

// Purchase represents a purchase transaction with one or more line items.
// Every committed item mutation propagates into the stock ledger.
type Purchase struct {
	entity.BaseDocument

	// Date is the business date of the purchase
	Date time.Time `db:"date" json:"date"`

	// SupplierName is a free-form supplier reference
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Description is an optional user comment
	Description string `db:"description" json:"description,omitempty"`

	// TotalPrice is the document total. When zero on create it defaults to
	// the sum of item totals (each item defaulted first).
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// Table part: purchased items
	Items []PurchaseItem `db:"-" json:"items"`
}

// PurchaseItem represents a line in the purchase.
type PurchaseItem struct {
	ID         id.ID `db:"id" json:"id"`
	PurchaseID id.ID `db:"purchase_id" json:"purchaseId"`

	// ModelID references the product model (and its stock aggregate)
	ModelID id.ID `db:"model_id" json:"modelId"`

	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TotalPrice defaults to unitPrice * quantity when not supplied.
	// Rows are normalized before persisting, so the stored value is always
	// the effective total the ledger saw.
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewPurchase creates a new purchase document.
func NewPurchase() *Purchase {
	return &Purchase{
		BaseDocument: entity.NewBaseDocument(),
		Date:         time.Now().UTC(),
		Items:        make([]PurchaseItem, 0),
	}
}

// LedgerItem converts the item to the slice the ledger consumes.
func (i PurchaseItem) LedgerItem() ledger.LineItem {
	return ledger.LineItem{
		ModelID:    i.ModelID,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
		TotalPrice: i.TotalPrice,
	}
}

// Normalize fills the item's defaulted total price before persisting.
func (i *PurchaseItem) Normalize() {
	i.TotalPrice = i.LedgerItem().EffectiveTotalPrice()
}

// Validate implements entity.Validatable for a single item.
func (i *PurchaseItem) Validate(ctx context.Context) error {
	if id.IsNil(i.ModelID) {
		return apperror.NewValidation("model is required").
			WithDetail("field", "modelId")
	}
	if i.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if i.UnitPrice.IsNegative() || i.TotalPrice.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "unitPrice")
	}
	return nil
}

// Normalize defaults every item total and the document total.
func (p *Purchase) Normalize() {
	for idx := range p.Items {
		p.Items[idx].Normalize()
	}
	if p.TotalPrice.IsZero() {
		total := types.Zero()
		for _, item := range p.Items {
			total = total.Add(item.TotalPrice)
		}
		p.TotalPrice = total
	}
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if p.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for idx := range p.Items {
		if err := p.Items[idx].Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("itemNo", idx+1)
			}
			return err
		}
	}
	return nil
}
