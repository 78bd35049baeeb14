package handlers

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/domain/purchases"
	"shopledger/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles purchase document endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *purchases.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchases.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers purchase routes.
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/items", h.CreateItem)
	rg.PUT("/items/:itemId", h.UpdateItem)
	rg.DELETE("/items/:itemId", h.DeleteItem)
}

// Create handles POST /purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
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

// List handles GET /purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.PurchaseResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromPurchase(doc)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetByID handles GET /purchases/:id.
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(doc))
}

// Delete handles DELETE /purchases/:id.
func (h *PurchaseHandler) Delete(c *gin.Context) {
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

// CreateItem handles POST /purchases/:id/items.
func (h *PurchaseHandler) CreateItem(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PurchaseItemRequest
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

// UpdateItem handles PUT /purchases/items/:itemId.
func (h *PurchaseHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.PurchaseItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToItem()
	item.ID = itemID
	if err := h.service.UpdateItem(c.Request.Context(), &item); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseItem(item))
}

// DeleteItem handles DELETE /purchases/items/:itemId.
func (h *PurchaseHandler) DeleteItem(c *gin.Context) {
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
