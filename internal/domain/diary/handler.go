package diary

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scepbjoern/comp-act-diary/internal/domain/media"
	"github.com/scepbjoern/comp-act-diary/internal/pkg/response"
	"github.com/scepbjoern/comp-act-diary/internal/transcribe"
)

type Handler struct {
	svc       *Service
	maxSizeMB int
}

func NewHandler(svc *Service, maxSizeMB int) *Handler {
	return &Handler{svc: svc, maxSizeMB: maxSizeMB}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/diary/upload-audio", h.UploadAudio)

	entries := r.Group("/journal-entries/:id/audio")
	{
		entries.GET("", h.ListAudio)
		entries.POST("", h.AttachAudio)
		entries.PATCH("/:attachmentId", h.UpdateAttachment)
		entries.DELETE("/:attachmentId", h.DeleteAttachment)
		entries.POST("/:attachmentId/retranscribe", h.Retranscribe)
	}
}

// UploadAudio handles POST /api/diary/upload-audio.
func (h *Handler) UploadAudio(c *gin.Context) {
	req := UploadAudioRequest{
		Date:      c.PostForm("date"),
		Time:      c.PostForm("time"),
		Model:     c.PostForm("model"),
		KeepAudio: true,
	}
	// keepAudio defaults to true; unparsable values keep the default.
	if raw, ok := c.GetPostForm("keepAudio"); ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			req.KeepAudio = v
		}
	}
	if raw := c.PostForm("userId"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.UserID = v
		}
	}
	if file, err := c.FormFile("file"); err == nil {
		req.File = file
	}

	result, err := h.svc.UploadAudio(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AttachAudio handles POST /api/journal-entries/:id/audio.
func (h *Handler) AttachAudio(c *gin.Context) {
	entryID, ok := h.entryID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fh = nil
	}

	att, err := h.svc.AttachAudio(c.Request.Context(), entryID, fh, c.PostForm("model"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

// ListAudio handles GET /api/journal-entries/:id/audio.
func (h *Handler) ListAudio(c *gin.Context) {
	entryID, ok := h.entryID(c)
	if !ok {
		return
	}
	atts, err := h.svc.ListAudio(c.Request.Context(), entryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, atts)
}

// UpdateAttachment handles PATCH /api/journal-entries/:id/audio/:attachmentId.
func (h *Handler) UpdateAttachment(c *gin.Context) {
	entryID, ok := h.entryID(c)
	if !ok {
		return
	}
	var req UpdateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	att, err := h.svc.UpdateAttachment(c.Request.Context(), entryID, c.Param("attachmentId"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

// DeleteAttachment handles DELETE /api/journal-entries/:id/audio/:attachmentId.
func (h *Handler) DeleteAttachment(c *gin.Context) {
	entryID, ok := h.entryID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAttachment(c.Request.Context(), entryID, c.Param("attachmentId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Retranscribe handles POST /api/journal-entries/:id/audio/:attachmentId/retranscribe.
func (h *Handler) Retranscribe(c *gin.Context) {
	entryID, ok := h.entryID(c)
	if !ok {
		return
	}
	var req RetranscribeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	att, err := h.svc.Retranscribe(c.Request.Context(), entryID, c.Param("attachmentId"), req.Model)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

func (h *Handler) entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFile):
		response.Error(c, http.StatusBadRequest, "Missing file")
	case errors.Is(err, ErrMissingDate):
		response.Error(c, http.StatusBadRequest, "Missing date")
	case errors.Is(err, ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, "Invalid date")
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusBadRequest, fmt.Sprintf("File too large (max %d MB)", h.maxSizeMB))
	case errors.Is(err, ErrEntryNotFound):
		response.Error(c, http.StatusNotFound, "Journal entry not found")
	case errors.Is(err, media.ErrAttachmentNotFound):
		response.Error(c, http.StatusNotFound, "Attachment not found")
	case errors.Is(err, media.ErrAssetNotFound):
		response.Error(c, http.StatusNotFound, "Audio file not found")
	case errors.Is(err, ErrPersistence):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to save audio", err.Error())
	case errors.Is(err, transcribe.ErrMissingCredential),
		errors.Is(err, transcribe.ErrProvider),
		errors.Is(err, transcribe.ErrNoTranscripts):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Transcription failed", err.Error())
	default:
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Transcription failed", err.Error())
	}
}
