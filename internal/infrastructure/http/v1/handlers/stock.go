package handlers

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/core/id"
	"shopledger/internal/domain/ledger"
	"shopledger/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger read endpoints.
// The ledger has no write endpoints: aggregates change only through
// purchase and sale mutations.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:modelId", h.GetByModelID)
}

// List handles GET /stocks.
func (h *StockHandler) List(c *gin.Context) {
	var req dto.StockListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := ledger.ListFilter{
		InStockBelow: req.InStockBelow,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	for _, raw := range req.ModelIDs {
		modelID, err := id.Parse(raw)
		if err != nil {
			continue
		}
		filter.ModelIDs = append(filter.ModelIDs, modelID)
	}

	aggs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.StockResponse, len(aggs))
	for i := range aggs {
		items[i] = dto.FromAggregate(&aggs[i])
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// GetByModelID handles GET /stocks/:modelId.
func (h *StockHandler) GetByModelID(c *gin.Context) {
	modelID, ok := h.ParseID(c, "modelId")
	if !ok {
		return
	}

	agg, err := h.service.GetByModelID(c.Request.Context(), modelID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAggregate(agg))
}
