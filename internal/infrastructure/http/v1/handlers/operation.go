package handlers

import (
	"github.com/gin-gonic/gin"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
	"contractops/internal/domain/operation"
	"contractops/internal/infrastructure/http/v1/dto"
)

func invalidQueryID(param, value string) error {
	return apperror.NewValidation("invalid " + param).
		WithDetail("param", param).
		WithDetail("value", value)
}

// OperationHandler serves the operation aggregate endpoints.
type OperationHandler struct {
	*BaseHandler
	service *operation.Service
}

// NewOperationHandler creates a new operation handler.
func NewOperationHandler(base *BaseHandler, service *operation.Service) *OperationHandler {
	return &OperationHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the operation endpoints on the group.
func (h *OperationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/expiring-guarantees", h.ExpiringGuarantees)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/summary", h.Summary)
	rg.POST("/:id/items", h.AddItem)
	rg.DELETE("/:id/items/:itemId", h.RemoveItem)
	rg.POST("/:id/payments", h.AddPayment)
	rg.POST("/:id/guarantee-checks/:checkId/return", h.ReturnCheck)
	rg.POST("/:id/guarantee-letters/:letterId/return", h.ReturnLetter)
}

// Create handles POST /operations.
func (h *OperationHandler) Create(c *gin.Context) {
	var req dto.CreateOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// List handles GET /operations. An optional clientId query narrows the
// result to one client.
func (h *OperationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("clientId"); raw != "" {
		clientID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, invalidQueryID("clientId", raw))
			return
		}
		ops, err := h.service.ListByClient(ctx, clientID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, ops)
		return
	}

	ops, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, ops)
}

// Get handles GET /operations/:id.
func (h *OperationHandler) Get(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	op, err := h.service.Get(c.Request.Context(), opID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, op)
}

// Update handles PUT /operations/:id.
func (h *OperationHandler) Update(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), opID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /operations/:id.
func (h *OperationHandler) Delete(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), opID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Summary handles GET /operations/:id/summary. Figures are derived from the
// raw records on every call.
func (h *OperationHandler) Summary(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), opID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// AddItem handles POST /operations/:id/items.
func (h *OperationHandler) AddItem(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	op, err := h.service.AddItem(c.Request.Context(), opID, req.ToItem())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, op)
}

// RemoveItem handles DELETE /operations/:id/items/:itemId. Remaining item
// codes are renumbered.
func (h *OperationHandler) RemoveItem(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	op, err := h.service.RemoveItem(c.Request.Context(), opID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, op)
}

// AddPayment handles POST /operations/:id/payments.
func (h *OperationHandler) AddPayment(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	op, err := h.service.AddPayment(c.Request.Context(), opID, req.ToPayment())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, op)
}

// ReturnCheck handles POST /operations/:id/guarantee-checks/:checkId/return.
func (h *OperationHandler) ReturnCheck(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	checkID, ok := h.ParseID(c, "checkId")
	if !ok {
		return
	}

	op, err := h.service.ReturnGuaranteeCheck(c.Request.Context(), opID, checkID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, op)
}

// ReturnLetter handles POST /operations/:id/guarantee-letters/:letterId/return.
func (h *OperationHandler) ReturnLetter(c *gin.Context) {
	opID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	letterID, ok := h.ParseID(c, "letterId")
	if !ok {
		return
	}

	op, err := h.service.ReturnGuaranteeLetter(c.Request.Context(), opID, letterID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, op)
}

// ExpiringGuarantees handles GET /operations/expiring-guarantees: all
// unreturned guarantees that are expiring soon or already expired.
func (h *OperationHandler) ExpiringGuarantees(c *gin.Context) {
	guarantees, err := h.service.ExpiringGuarantees(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, guarantees)
}
