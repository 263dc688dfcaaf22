package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/auth"
	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/paging"
)

// Handler handles tag-related requests
type Handler struct {
	store *Store
}

// NewHandler creates a new tags handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RenameTagRequest represents the request to rename a tag
type RenameTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns tags in alphabetical order. Anonymous callers only see tags
// on public links, counted over public links.
// @Summary List tags
// @Tags tags
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query string false "Page size or 'all'"
// @Success 200 {array} Summary
// @Failure 400 {object} map[string]string
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	page, err := paging.Parse(c.Query("offset"), c.Query("limit"))
	if err != nil {
		errs.Respond(c, err)
		return
	}

	tags, err := h.store.Search(c.Request.Context(), page, !auth.IsAuthorized(c))
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// Get returns a single tag
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param name path string true "Tag name"
// @Success 200 {object} Summary
// @Failure 404 {object} map[string]string
// @Router /tags/{name} [get]
func (h *Handler) Get(c *gin.Context) {
	tag, err := h.store.Read(c.Request.Context(), c.Param("name"), !auth.IsAuthorized(c))
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// Rename renames a tag
// @Summary Rename a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param name path string true "Tag name"
// @Param request body RenameTagRequest true "New name"
// @Success 200 {object} Summary
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /tags/{name} [put]
func (h *Handler) Rename(c *gin.Context) {
	var req RenameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	tag, err := h.store.Rename(c.Request.Context(), c.Param("name"), req.Name)
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// Delete removes a tag from all links
// @Summary Delete a tag
// @Tags tags
// @Param name path string true "Tag name"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tags/{name} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("name")); err != nil {
		errs.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the read-only tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.GET("/tags/:name", h.Get)
}

// RegisterWriteRoutes registers the routes that modify tags
func (h *Handler) RegisterWriteRoutes(rg *gin.RouterGroup) {
	rg.PUT("/tags/:name", h.Rename)
	rg.DELETE("/tags/:name", h.Delete)
}
