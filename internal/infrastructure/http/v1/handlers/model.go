package handlers

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/domain/catalog"
	"shopledger/internal/infrastructure/http/v1/dto"
)

// ModelHandler handles product model endpoints.
type ModelHandler struct {
	*BaseHandler
	service *catalog.Service
}

// NewModelHandler creates a new model handler.
func NewModelHandler(base *BaseHandler, service *catalog.Service) *ModelHandler {
	return &ModelHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers model routes.
func (h *ModelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /models.
func (h *ModelHandler) Create(c *gin.Context) {
	var req dto.CreateModelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	model := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), model); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, model.ID.String())
}

// List handles GET /models.
func (h *ModelHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ModelResponse, len(result.Items))
	for i, model := range result.Items {
		items[i] = dto.FromModel(model)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetByID handles GET /models/:id.
func (h *ModelHandler) GetByID(c *gin.Context) {
	modelID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	model, err := h.service.GetByID(c.Request.Context(), modelID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromModel(model))
}

// Update handles PUT /models/:id.
func (h *ModelHandler) Update(c *gin.Context) {
	modelID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateModelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	model, err := h.service.GetByID(c.Request.Context(), modelID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(model)
	if err := h.service.Update(c.Request.Context(), model); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromModel(model))
}

// Delete handles DELETE /models/:id.
func (h *ModelHandler) Delete(c *gin.Context) {
	modelID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), modelID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
