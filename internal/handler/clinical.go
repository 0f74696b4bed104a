package handler

import (
	"net/http"

	"rambopet/internal/apierror"
	"rambopet/internal/dto"
	"rambopet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAttachmentSize caps clinical file uploads at 20 MiB.
const maxAttachmentSize = 20 << 20

type ClinicalHandler struct{ svc service.ClinicalService }

func NewClinicalHandler(svc service.ClinicalService) *ClinicalHandler {
	return &ClinicalHandler{svc: svc}
}

func (h *ClinicalHandler) CreateEpisode(c *gin.Context) {
	var req dto.CreateEpisodeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateEpisode(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClinicalHandler) ListEpisodes(c *gin.Context) {
	var filter dto.EpisodeFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListEpisodes(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClinicalHandler) GetEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetEpisode(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClinicalHandler) UpdateEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateEpisodeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateEpisode(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClinicalHandler) CloseEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.CloseEpisode(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClinicalHandler) ReopenEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReopenEpisode(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClinicalHandler) RecordVitals(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RecordVitalsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordVitals(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UploadAttachment accepts a multipart form with fields type, title,
// description and the file itself under "file".
func (h *ClinicalHandler) UploadAttachment(c *gin.Context) {
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

	resp, err := h.svc.AddAttachment(
		c.Request.Context(),
		actorFrom(c),
		id,
		c.PostForm("type"),
		c.PostForm("title"),
		c.PostForm("description"),
		fileHeader.Filename,
		f,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DownloadAttachment streams the stored file back to the client.
func (h *ClinicalHandler) DownloadAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid attachment id"))
		return
	}

	meta, f, err := h.svc.OpenAttachment(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+meta.Title+`"`)
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", f, nil)
}

// DeleteAttachment removes both the database row and the stored file.
func (h *ClinicalHandler) DeleteAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid attachment id"))
		return
	}
	if err := h.svc.DeleteAttachment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
