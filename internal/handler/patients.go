package handler

import (
	"net/http"

	"rambopet/internal/apierror"
	"rambopet/internal/dto"
	"rambopet/internal/service"

	"github.com/gin-gonic/gin"
)

type PatientsHandler struct{ svc service.PatientService }

func NewPatientsHandler(svc service.PatientService) *PatientsHandler {
	return &PatientsHandler{svc: svc}
}

func (h *PatientsHandler) Create(c *gin.Context) {
	var req dto.CreatePatientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List scopes guardians to their own patients; staff see everything.
func (h *PatientsHandler) List(c *gin.Context) {
	var filter dto.PatientFilter
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

// Mine lists the authenticated guardian's own patients regardless of any
// guardian_id filter in the query.
func (h *PatientsHandler) Mine(c *gin.Context) {
	var filter dto.PatientFilter
	if !bindQuery(c, &filter) {
		return
	}
	actor := actorFrom(c)
	filter.GuardianID = actor.UserID.String()
	resp, err := h.svc.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PatientsHandler) GetByID(c *gin.Context) {
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

func (h *PatientsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePatientRequest
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

func (h *PatientsHandler) MarkDeceased(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MarkDeceasedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarkDeceased(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadPhoto accepts a multipart form with the image under "file".
func (h *PatientsHandler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("file exceeds the 20 MiB limit"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cannot read uploaded file"))
		return
	}
	defer f.Close()

	resp, err := h.svc.UpdatePhoto(c.Request.Context(), id, fileHeader.Filename, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PatientsHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
