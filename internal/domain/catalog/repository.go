package catalog

import (
	"context"

	"shopledger/internal/core/id"
	"shopledger/internal/domain"
)

// Repository defines persistence operations for product models.
type Repository interface {
	// Create inserts a new model
	Create(ctx context.Context, model *Model) error

	// Update modifies a model (with optimistic locking)
	Update(ctx context.Context, model *Model) error

	// SetDeletionMark soft-deletes or restores the model
	SetDeletionMark(ctx context.Context, modelID id.ID, marked bool) error

	// GetByID retrieves a model by ID
	GetByID(ctx context.Context, modelID id.ID) (*Model, error)

	// List retrieves models with filtering
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Model], error)
}
