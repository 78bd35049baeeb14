package handlers

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/domain/sales"
	"shopledger/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles sale document endpoints.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers sale routes.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/items", h.CreateItem)
	rg.PUT("/items/:itemId", h.UpdateItem)
	rg.DELETE("/items/:itemId", h.DeleteItem)
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc.ID.String())
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.SaleResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromSale(doc)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetByID handles GET /sales/:id.
func (h *SaleHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(doc))
}

// Delete handles DELETE /sales/:id.
func (h *SaleHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// CreateItem handles POST /sales/:id/items.
func (h *SaleHandler) CreateItem(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SaleItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToItem()
	if err := h.service.CreateItem(c.Request.Context(), docID, &item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item.ID.String())
}

// UpdateItem handles PUT /sales/items/:itemId.
func (h *SaleHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.SaleItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToItem()
	item.ID = itemID
	if err := h.service.UpdateItem(c.Request.Context(), &item); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSaleItem(item))
}

// DeleteItem handles DELETE /sales/items/:itemId.
func (h *SaleHandler) DeleteItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
