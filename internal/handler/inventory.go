package handler

import (
	"net/http"

	"rambopet/internal/apierror"
	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) CreateLot(c *gin.Context) {
	var req dto.CreateLotRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLot(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListLots(c *gin.Context) {
	var filter dto.LotFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListLots(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list lots"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) GetLot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetLot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) DeactivateLot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateLot(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterMovement godoc
// @Summary Register a stock movement
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.CreateMovementRequest true "Movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterMovement(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegisterInbound is a shortcut that pins the movement type to intake, for
// goods-received screens that never produce anything else. The type field
// is filled in before validation so callers can omit it.
func (h *InventoryHandler) RegisterInbound(c *gin.Context) {
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	req.Type = model.MovementIntake
	if !validateStruct(c, &req) {
		return
	}
	resp, err := h.svc.RegisterMovement(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegisterOutbound accepts only dispensing movements: sale or clinical_use.
func (h *InventoryHandler) RegisterOutbound(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Type != model.MovementSale && req.Type != model.MovementClinicalUse {
		c.JSON(http.StatusBadRequest, apierror.New("outbound movements must be sale or clinical_use"))
		return
	}
	resp, err := h.svc.RegisterMovement(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMovement always refuses: the stock ledger is append-only, mistakes
// are corrected with a compensating adjustment movement.
func (h *InventoryHandler) DeleteMovement(c *gin.Context) {
	c.JSON(http.StatusForbidden, apierror.New("stock movements are never deleted; register an adjustment instead"))
}

// ExpiryReport lists lots expired or expiring inside the warning window.
func (h *InventoryHandler) ExpiryReport(c *gin.Context) {
	resp, err := h.svc.ExpiryReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build expiry report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
