package dto

import (
	"time"

	"shopledger/internal/core/types"
	"shopledger/internal/domain/ledger"
)

// --- Request DTOs ---

// StockListRequest contains stock aggregate query parameters.
type StockListRequest struct {
	ModelIDs     []string `form:"modelIds"`
	InStockBelow *int64   `form:"inStockBelow"`
	Limit        int      `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset       int      `form:"offset" binding:"omitempty,min=0"`
}

// --- Response DTOs ---

// StockResponse represents a stock aggregate in API responses.
type StockResponse struct {
	ModelID                string      `json:"modelId"`
	TotalPurchasesQuantity int64       `json:"totalPurchasesQuantity"`
	TotalSalesQuantity     int64       `json:"totalSalesQuantity"`
	TotalInStock           int64       `json:"totalInStock"`
	TotalPurchasesPrice    types.Money `json:"totalPurchasesPrice"`
	TotalSalesPrice        types.Money `json:"totalSalesPrice"`
	Profit                 types.Money `json:"profit"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

// FromAggregate converts a domain aggregate to response DTO.
func FromAggregate(agg *ledger.Aggregate) *StockResponse {
	return &StockResponse{
		ModelID:                agg.ModelID.String(),
		TotalPurchasesQuantity: agg.TotalPurchasesQuantity,
		TotalSalesQuantity:     agg.TotalSalesQuantity,
		TotalInStock:           agg.TotalInStock,
		TotalPurchasesPrice:    agg.TotalPurchasesPrice,
		TotalSalesPrice:        agg.TotalSalesPrice,
		Profit:                 agg.Profit,
		UpdatedAt:              agg.UpdatedAt,
	}
}
