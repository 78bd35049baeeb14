package ledger

import (
	"context"

	"shopledger/internal/core/id"
)

// Repository defines persistence operations for stock aggregates.
type Repository interface {
	// GetByModelID returns the aggregate for a model.
	// Returns apperror.CodeNotFound when no row exists.
	GetByModelID(ctx context.Context, modelID id.ID) (*Aggregate, error)

	// GetByModelIDs returns aggregates for a set of models.
	// Missing models are simply absent from the result map.
	GetByModelIDs(ctx context.Context, modelIDs []id.ID) (map[id.ID]*Aggregate, error)

	// Create inserts a zero aggregate row for a model.
	Create(ctx context.Context, agg *Aggregate) error

	// ApplyFieldDeltas performs the database-side atomic increments for one
	// model (UPDATE ... SET col = col + delta). Returns false when no
	// aggregate row exists; the caller decides whether to skip or create.
	//
	// This is the only write path for aggregate counters. It must run inside
	// the same transaction as the line-item write it reflects.
	ApplyFieldDeltas(ctx context.Context, modelID id.ID, fd FieldDeltas) (bool, error)

	// List returns aggregates with filtering.
	List(ctx context.Context, filter ListFilter) ([]Aggregate, error)
}

// ListFilter for aggregate queries.
type ListFilter struct {
	ModelIDs     []id.ID
	InStockBelow *int64
	Limit        int
	Offset       int
}
