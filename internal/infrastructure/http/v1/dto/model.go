package dto

import (
	"shopledger/internal/domain/catalog"
)

// --- Request DTOs ---

// CreateModelRequest represents a request to create a product model.
type CreateModelRequest struct {
	Name        string `json:"name" binding:"required"`
	Brand       string `json:"brand,omitempty"`
	Article     string `json:"article,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateModelRequest) ToEntity() *catalog.Model {
	model := catalog.NewModel(r.Name)
	model.Brand = r.Brand
	model.Article = r.Article
	model.Description = r.Description
	return model
}

// UpdateModelRequest represents a request to update a product model.
type UpdateModelRequest struct {
	Name        *string `json:"name,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Article     *string `json:"article,omitempty"`
	Description *string `json:"description,omitempty"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateModelRequest) ApplyTo(model *catalog.Model) {
	if r.Name != nil {
		model.Name = *r.Name
	}
	if r.Brand != nil {
		model.Brand = *r.Brand
	}
	if r.Article != nil {
		model.Article = *r.Article
	}
	if r.Description != nil {
		model.Description = *r.Description
	}
	model.Version = r.Version
}

// --- Response DTOs ---

// ModelResponse represents a product model in API responses.
type ModelResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand,omitempty"`
	Article      string `json:"article,omitempty"`
	Description  string `json:"description,omitempty"`
	DeletionMark bool   `json:"deletionMark,omitempty"`
	Version      int    `json:"version"`
}

// FromModel converts domain entity to response DTO.
func FromModel(model *catalog.Model) *ModelResponse {
	return &ModelResponse{
		ID:           model.ID.String(),
		Name:         model.Name,
		Brand:        model.Brand,
		Article:      model.Article,
		Description:  model.Description,
		DeletionMark: model.DeletionMark,
		Version:      model.Version,
	}
}
