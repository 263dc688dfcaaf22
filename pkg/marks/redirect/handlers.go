// Package redirect resolves short aliases to their target URLs.
package redirect

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/links"
)

// Handler handles redirect requests
type Handler struct {
	links *links.Store
}

// NewHandler creates a new redirect handler
func NewHandler(store *links.Store) *Handler {
	return &Handler{links: store}
}

// Redirect sends the client to the link behind an alias. Private links
// redirect too: the target URL is not secret, only the link's metadata.
func (h *Handler) Redirect(c *gin.Context) {
	bookmark, err := h.links.ReadByAlias(c.Request.Context(), c.Param("shorturl"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	c.Redirect(http.StatusFound, bookmark.URL)
}

// RegisterRoutes registers the redirect route on the root router.
// Call it after all other routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/:shorturl", h.Redirect)
}
