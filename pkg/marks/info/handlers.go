package info

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/errs"
)

// Handler handles info and settings requests
type Handler struct {
	service *Service
}

// NewHandler creates a new info handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetInfo returns the link counters and the settings
// @Summary Get catalog info
// @Tags info
// @Produce json
// @Success 200 {object} Info
// @Security BearerAuth
// @Router /info [get]
func (h *Handler) GetInfo(c *gin.Context) {
	info, err := h.service.Info(c.Request.Context())
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// UpdateSettings changes the site settings
// @Summary Update settings
// @Tags info
// @Accept json
// @Produce json
// @Param request body SettingsInput true "Settings to change"
// @Success 200 {object} models.Settings
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// RegisterRoutes registers the info routes. All of them require a token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/info", h.GetInfo)
	rg.PUT("/settings", h.UpdateSettings)
}
