package history

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/paging"
)

// Handler serves the audit log
type Handler struct {
	recorder *Recorder
}

// NewHandler creates a new history handler
func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// List returns audit entries
// @Summary List audit log entries
// @Tags history
// @Produce json
// @Param since query string false "RFC 3339 lower bound, exclusive"
// @Param offset query int false "Offset"
// @Param limit query string false "Page size or 'all'"
// @Success 200 {array} models.HistoryEntry
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /history [get]
func (h *Handler) List(c *gin.Context) {
	page, err := paging.Parse(c.Query("offset"), c.Query("limit"))
	if err != nil {
		errs.Respond(c, err)
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs.Respond(c, fmt.Errorf("%w: since must be an RFC 3339 timestamp", errs.ErrValidation))
			return
		}
		since = &t
	}

	entries, err := h.recorder.Search(c.Request.Context(), since, page)
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// RegisterRoutes registers history routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.List)
}
