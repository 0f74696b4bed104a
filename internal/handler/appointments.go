package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"rambopet/internal/apierror"
	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentsHandler struct{ svc service.AppointmentService }

func NewAppointmentsHandler(svc service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{svc: svc}
}

// Create godoc
// @Summary Book an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param body body dto.CreateAppointmentRequest true "Appointment"
// @Success 201 {object} dto.AppointmentResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/appointments [post]
func (h *AppointmentsHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AppointmentsHandler) List(c *gin.Context) {
	var filter dto.AppointmentFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Mine lists the caller's own appointments. Guardians are scoped to their
// bookings by the service; vets are pinned to their own slots here.
func (h *AppointmentsHandler) Mine(c *gin.Context) {
	var filter dto.AppointmentFilter
	if !bindQuery(c, &filter) {
		return
	}
	actor := actorFrom(c)
	if actor.Role == model.RoleVet {
		filter.VetID = actor.UserID.String()
	}
	resp, err := h.svc.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upcoming lists non-cancelled appointments in the next ?days= days
// (default 7), scoped to the caller.
func (h *AppointmentsHandler) Upcoming(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, apierror.New("days must be between 1 and 365"))
			return
		}
		days = parsed
	}
	resp, err := h.svc.Upcoming(c.Request.Context(), actorFrom(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Schedule returns a vet's appointments for one day:
// GET /appointments/schedule?vet_id=...&date=2026-09-01
func (h *AppointmentsHandler) Schedule(c *gin.Context) {
	vetID, err := uuid.Parse(c.Query("vet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("vet_id is required"))
		return
	}
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	resp, err := h.svc.VetSchedule(c.Request.Context(), vetID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *AppointmentsHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentsHandler) Confirm(c *gin.Context) {
	h.transition(c, h.svc.Confirm)
}

func (h *AppointmentsHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

func (h *AppointmentsHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

func (h *AppointmentsHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.svc.MarkNoShow)
}

func (h *AppointmentsHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CancelAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete always refuses: the schedule is an audit trail, cancelled and no_show
// entries stay on record.
func (h *AppointmentsHandler) Delete(c *gin.Context) {
	c.JSON(http.StatusForbidden, apierror.New("appointments are never deleted; cancel instead"))
}

func (h *AppointmentsHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
