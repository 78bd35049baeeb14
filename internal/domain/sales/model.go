// Package sales provides the Sale document: goods sold out of stock.
package sales

import (
	"context"
	"time"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/entity"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/ledger"
)

// Sale represents a sale transaction with one or more line items.
// Every committed item mutation propagates into the stock ledger.
type Sale struct {
	entity.BaseDocument

	// Date is the business date of the sale
	Date time.Time `db:"date" json:"date"`

	// CustomerName is a free-form customer reference
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	// Description is an optional user comment
	Description string `db:"description" json:"description,omitempty"`

	// TotalPrice is the document total. When zero on create it defaults to
	// the sum of item totals (each item defaulted first).
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// Table part: sold items
	Items []SaleItem `db:"-" json:"items"`
}

// SaleItem represents a line in the sale.
type SaleItem struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`

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

// NewSale creates a new sale document.
func NewSale() *Sale {
	return &Sale{
		BaseDocument: entity.NewBaseDocument(),
		Date:         time.Now().UTC(),
		Items:        make([]SaleItem, 0),
	}
}

// LedgerItem converts the item to the slice the ledger consumes.
func (i SaleItem) LedgerItem() ledger.LineItem {
	return ledger.LineItem{
		ModelID:    i.ModelID,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
		TotalPrice: i.TotalPrice,
	}
}

// Normalize fills the item's defaulted total price before persisting.
func (i *SaleItem) Normalize() {
	i.TotalPrice = i.LedgerItem().EffectiveTotalPrice()
}

// Validate implements entity.Validatable for a single item.
func (i *SaleItem) Validate(ctx context.Context) error {
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
func (s *Sale) Normalize() {
	for idx := range s.Items {
		s.Items[idx].Normalize()
	}
	if s.TotalPrice.IsZero() {
		total := types.Zero()
		for _, item := range s.Items {
			total = total.Add(item.TotalPrice)
		}
		s.TotalPrice = total
	}
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if s.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for idx := range s.Items {
		if err := s.Items[idx].Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("itemNo", idx+1)
			}
			return err
		}
	}
	return nil
}
