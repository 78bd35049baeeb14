package dto

import (
	"time"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/sales"
)

// --- Request DTOs ---

// CreateSaleRequest represents a request to create a sale.
type CreateSaleRequest struct {
	Date         time.Time         `json:"date" binding:"required"`
	CustomerName string            `json:"customerName,omitempty"`
	Description  string            `json:"description,omitempty"`
	TotalPrice   types.Money       `json:"totalPrice"`
	Items        []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest represents an item in create/update requests.
// TotalPrice is optional: when zero it defaults to unitPrice * quantity.
type SaleItemRequest struct {
	ModelID    string      `json:"modelId" binding:"required"`
	Quantity   int64       `json:"quantity" binding:"required,gt=0"`
	UnitPrice  types.Money `json:"unitPrice"`
	TotalPrice types.Money `json:"totalPrice"`
}

// ToItem converts the request item to a domain item.
func (r *SaleItemRequest) ToItem() sales.SaleItem {
	modelID, _ := id.Parse(r.ModelID)
	return sales.SaleItem{
		ID:         id.New(),
		ModelID:    modelID,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		TotalPrice: r.TotalPrice,
		CreatedAt:  time.Now().UTC(),
	}
}

// ToEntity converts request to domain entity.
func (r *CreateSaleRequest) ToEntity() *sales.Sale {
	doc := sales.NewSale()
	doc.Date = r.Date
	doc.CustomerName = r.CustomerName
	doc.Description = r.Description
	doc.TotalPrice = r.TotalPrice

	doc.Items = make([]sales.SaleItem, 0, len(r.Items))
	for _, item := range r.Items {
		doc.Items = append(doc.Items, item.ToItem())
	}

	return doc
}

// --- Response DTOs ---

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID           string             `json:"id"`
	Date         time.Time          `json:"date"`
	CustomerName string             `json:"customerName,omitempty"`
	Description  string             `json:"description,omitempty"`
	TotalPrice   types.Money        `json:"totalPrice"`
	Items        []SaleItemResponse `json:"items,omitempty"`
	DeletionMark bool               `json:"deletionMark,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// SaleItemResponse represents an item in API responses.
type SaleItemResponse struct {
	ID         string      `json:"id"`
	ModelID    string      `json:"modelId"`
	Quantity   int64       `json:"quantity"`
	UnitPrice  types.Money `json:"unitPrice"`
	TotalPrice types.Money `json:"totalPrice"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// FromSaleItem converts a domain item to response DTO.
func FromSaleItem(item sales.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:         item.ID.String(),
		ModelID:    item.ModelID.String(),
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
		CreatedAt:  item.CreatedAt,
	}
}

// FromSale converts domain entity to response DTO.
func FromSale(doc *sales.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:           doc.ID.String(),
		Date:         doc.Date,
		CustomerName: doc.CustomerName,
		Description:  doc.Description,
		TotalPrice:   doc.TotalPrice,
		DeletionMark: doc.DeletionMark,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	resp.Items = make([]SaleItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = FromSaleItem(item)
	}

	return resp
}
