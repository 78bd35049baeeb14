// Package catalog provides the product model catalog.
// Each model owns exactly one stock aggregate, created together with it.
package catalog

import (
	"context"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/entity"
)

// Model represents a product model sold by the shop.
type Model struct {
	entity.BaseCatalog

	// Name is the display name (required)
	Name string `db:"name" json:"name"`

	// Brand is an optional manufacturer reference
	Brand string `db:"brand" json:"brand,omitempty"`

	// Article is an optional merchant SKU / article code
	Article string `db:"article" json:"article,omitempty"`

	// Description is an optional user comment
	Description string `db:"description" json:"description,omitempty"`
}

// NewModel creates a new product model.
func NewModel(name string) *Model {
	return &Model{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
	}
}

// Validate implements entity.Validatable.
func (m *Model) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
