package purchases

import (
	"context"

	"shopledger/internal/core/id"
	"shopledger/internal/domain"
)

// Repository defines persistence operations for purchase documents.
type Repository interface {
	// Document operations

	// Create inserts the purchase header
	Create(ctx context.Context, doc *Purchase) error

	// Update modifies the purchase header (with optimistic locking)
	Update(ctx context.Context, doc *Purchase) error

	// SetDeletionMark soft-deletes or restores the document
	SetDeletionMark(ctx context.Context, docID id.ID, marked bool) error

	// GetByID retrieves the header without items
	GetByID(ctx context.Context, docID id.ID) (*Purchase, error)

	// List retrieves purchases with filtering
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Purchase], error)

	// Item operations

	// GetItems retrieves all items for a purchase
	GetItems(ctx context.Context, docID id.ID) ([]PurchaseItem, error)

	// GetItem retrieves a single item
	GetItem(ctx context.Context, itemID id.ID) (*PurchaseItem, error)

	// CreateItems batch inserts items (used during document create)
	CreateItems(ctx context.Context, items []PurchaseItem) error

	// UpdateItem overwrites one item row
	UpdateItem(ctx context.Context, item *PurchaseItem) error

	// DeleteItem removes one item row
	DeleteItem(ctx context.Context, itemID id.ID) error

	// DeleteItems removes all item rows of a purchase
	DeleteItems(ctx context.Context, docID id.ID) error
}
