package dto

import (
	"time"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/purchases"
)

// --- Request DTOs ---

// CreatePurchaseRequest represents a request to create a purchase.
type CreatePurchaseRequest struct {
	Date         time.Time             `json:"date" binding:"required"`
	SupplierName string                `json:"supplierName,omitempty"`
	Description  string                `json:"description,omitempty"`
	TotalPrice   types.Money           `json:"totalPrice"`
	Items        []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseItemRequest represents an item in create/update requests.
// TotalPrice is optional: when zero it defaults to unitPrice * quantity.
type PurchaseItemRequest struct {
	ModelID    string      `json:"modelId" binding:"required"`
	Quantity   int64       `json:"quantity" binding:"required,gt=0"`
	UnitPrice  types.Money `json:"unitPrice"`
	TotalPrice types.Money `json:"totalPrice"`
}

// ToItem converts the request item to a domain item.
func (r *PurchaseItemRequest) ToItem() purchases.PurchaseItem {
	modelID, _ := id.Parse(r.ModelID)
	return purchases.PurchaseItem{
		ID:         id.New(),
		ModelID:    modelID,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		TotalPrice: r.TotalPrice,
		CreatedAt:  time.Now().UTC(),
	}
}

// ToEntity converts request to domain entity.
func (r *CreatePurchaseRequest) ToEntity() *purchases.Purchase {
	doc := purchases.NewPurchase()
	doc.Date = r.Date
	doc.SupplierName = r.SupplierName
	doc.Description = r.Description
	doc.TotalPrice = r.TotalPrice

	doc.Items = make([]purchases.PurchaseItem, 0, len(r.Items))
	for _, item := range r.Items {
		doc.Items = append(doc.Items, item.ToItem())
	}

	return doc
}

// --- Response DTOs ---

// PurchaseResponse represents a purchase in API responses.
type PurchaseResponse struct {
	ID           string                 `json:"id"`
	Date         time.Time              `json:"date"`
	SupplierName string                 `json:"supplierName,omitempty"`
	Description  string                 `json:"description,omitempty"`
	TotalPrice   types.Money            `json:"totalPrice"`
	Items        []PurchaseItemResponse `json:"items,omitempty"`
	DeletionMark bool                   `json:"deletionMark,omitempty"`
	Version      int                    `json:"version"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// PurchaseItemResponse represents an item in API responses.
type PurchaseItemResponse struct {
	ID         string      `json:"id"`
	ModelID    string      `json:"modelId"`
	Quantity   int64       `json:"quantity"`
	UnitPrice  types.Money `json:"unitPrice"`
	TotalPrice types.Money `json:"totalPrice"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// FromPurchaseItem converts a domain item to response DTO.
func FromPurchaseItem(item purchases.PurchaseItem) PurchaseItemResponse {
	return PurchaseItemResponse{
		ID:         item.ID.String(),
		ModelID:    item.ModelID.String(),
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
		CreatedAt:  item.CreatedAt,
	}
}

// FromPurchase converts domain entity to response DTO.
func FromPurchase(doc *purchases.Purchase) *PurchaseResponse {
	resp := &PurchaseResponse{
		ID:           doc.ID.String(),
		Date:         doc.Date,
		SupplierName: doc.SupplierName,
		Description:  doc.Description,
		TotalPrice:   doc.TotalPrice,
		DeletionMark: doc.DeletionMark,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	resp.Items = make([]PurchaseItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = FromPurchaseItem(item)
	}

	return resp
}
