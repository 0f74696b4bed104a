package handler

import (
	"net/http"

	"rambopet/internal/apierror"
	"rambopet/internal/dto"
	"rambopet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SpeciesHandler struct{ svc service.SpeciesService }

func NewSpeciesHandler(svc service.SpeciesService) *SpeciesHandler {
	return &SpeciesHandler{svc: svc}
}

func (h *SpeciesHandler) Create(c *gin.Context) {
	var req dto.CreateSpeciesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSpecies(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SpeciesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListSpecies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list species"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SpeciesHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateSpecies(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SpeciesHandler) CreateBreed(c *gin.Context) {
	var req dto.CreateBreedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBreed(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListBreeds accepts an optional species_id query param to narrow the list.
func (h *SpeciesHandler) ListBreeds(c *gin.Context) {
	var speciesID *uuid.UUID
	if raw := c.Query("species_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid species_id"))
			return
		}
		speciesID = &id
	}
	resp, err := h.svc.ListBreeds(c.Request.Context(), speciesID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list breeds"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SpeciesHandler) DeactivateBreed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateBreed(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
