package sales

import (
	"context"

	"shopledger/internal/core/id"
	"shopledger/internal/domain"
)

// Repository defines persistence operations for sale documents.
type Repository interface {
	// Document operations

	// Create inserts the sale header
	Create(ctx context.Context, doc *Sale) error

	// Update modifies the sale header (with optimistic locking)
	Update(ctx context.Context, doc *Sale) error

	// SetDeletionMark soft-deletes or restores the document
	SetDeletionMark(ctx context.Context, docID id.ID, marked bool) error

	// GetByID retrieves the header without items
	GetByID(ctx context.Context, docID id.ID) (*Sale, error)

	// List retrieves sales with filtering
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)

	// Item operations

	// GetItems retrieves all items for a sale
	GetItems(ctx context.Context, docID id.ID) ([]SaleItem, error)

	// GetItem retrieves a single item
	GetItem(ctx context.Context, itemID id.ID) (*SaleItem, error)

	// CreateItems batch inserts items (used during document create)
	CreateItems(ctx context.Context, items []SaleItem) error

	// UpdateItem overwrites one item row
	UpdateItem(ctx context.Context, item *SaleItem) error

	// DeleteItem removes one item row
	DeleteItem(ctx context.Context, itemID id.ID) error

	// DeleteItems removes all item rows of a sale
	DeleteItems(ctx context.Context, docID id.ID) error
}
