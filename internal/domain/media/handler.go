package media

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scepbjoern/comp-act-diary/internal/pkg/response"
)

// Handler exposes the asset endpoints. The only write it allows is timestamp
// correction; everything else about an asset is immutable after upload.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	assets := rg.Group("/media")
	{
		assets.GET("/:id", h.GetAsset)
		assets.PATCH("/:id", h.UpdateCapturedAt)
	}
}

func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.repo.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			response.Error(c, http.StatusNotFound, "Media asset not found")
			return
		}
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to load media asset", err.Error())
		return
	}
	c.JSON(http.StatusOK, asset)
}

type updateCapturedAtRequest struct {
	CapturedAt time.Time `json:"capturedAt" binding:"required"`
}

func (h *Handler) UpdateCapturedAt(c *gin.Context) {
	var req updateCapturedAtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid capturedAt")
		return
	}

	id := c.Param("id")
	if err := h.repo.UpdateAssetCapturedAt(c.Request.Context(), id, req.CapturedAt); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			response.Error(c, http.StatusNotFound, "Media asset not found")
			return
		}
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to update media asset", err.Error())
		return
	}

	asset, err := h.repo.GetAsset(c.Request.Context(), id)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to load media asset", err.Error())
		return
	}
	c.JSON(http.StatusOK, asset)
}
