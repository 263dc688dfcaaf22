package links

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/auth"
	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/paging"
)

// Handler handles link-related requests
type Handler struct {
	store *Store
}

// NewHandler creates a new links handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// CreateLinkRequest represents the request to create a link. Omitted title,
// description and tags are filled in from the page.
type CreateLinkRequest struct {
	URL         string     `json:"url" binding:"required,url"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Private     *bool      `json:"private"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// UpdateLinkRequest represents the request to update a link
type UpdateLinkRequest struct {
	URL         *string   `json:"url" binding:"omitempty,url"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Private     *bool     `json:"private"`
	Tags        *[]string `json:"tags"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID          uint     `json:"id"`
	URL         string   `json:"url"`
	ShortURL    string   `json:"shorturl"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func linkToResponse(b Bookmark) LinkResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return LinkResponse{
		ID:          b.ID,
		URL:         b.URL,
		ShortURL:    b.Alias(),
		Title:       b.Title,
		Description: b.Description,
		Private:     b.Private,
		Tags:        tags,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID", "kind": "validation"})
		return 0, false
	}
	return uint(id), true
}

// rawQueryValue returns the first value of key without turning "+" into a
// space, so that "+" can act as the tag delimiter.
func rawQueryValue(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k != key {
			continue
		}
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped
		}
		return v
	}
	return ""
}

// filterFromQuery builds a search filter from the request. Anonymous callers
// only ever see public links.
func filterFromQuery(c *gin.Context) (Filter, error) {
	page, err := paging.Parse(c.Query("offset"), c.Query("limit"))
	if err != nil {
		return Filter{}, err
	}

	f := Filter{
		Term:       c.Query("term"),
		Tags:       SplitTags(rawQueryValue(c.Request.URL.RawQuery, "tags")),
		Visibility: Visibility(c.Query("visibility")),
		Page:       page,
	}

	switch c.Query("match") {
	case "", "any":
	case "all":
		f.MatchAll = true
	default:
		return Filter{}, fmt.Errorf("%w: match must be any or all", errs.ErrValidation)
	}

	if !auth.IsAuthorized(c) {
		f.Visibility = VisibilityPublic
	}
	return f, nil
}

// Search lists links matching the query
// @Summary Search links
// @Description Filter links by term, tags and visibility, ordered by id
// @Tags links
// @Produce json
// @Param term query string false "Substring of title or description, case-insensitive"
// @Param tags query string false "Tag names separated by +"
// @Param match query string false "any (default) or all"
// @Param visibility query string false "all, private or public"
// @Param offset query int false "Offset"
// @Param limit query string false "Page size or 'all'"
// @Success 200 {array} LinkResponse
// @Failure 400 {object} map[string]string
// @Router /links [get]
func (h *Handler) Search(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		errs.Respond(c, err)
		return
	}

	bookmarks, err := h.store.Search(c.Request.Context(), f)
	if err != nil {
		errs.Respond(c, err)
		return
	}

	responses := make([]LinkResponse, len(bookmarks))
	for i, b := range bookmarks {
		responses[i] = linkToResponse(b)
	}

	c.JSON(http.StatusOK, responses)
}

// Get returns a link by id
// @Summary Get a link
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} LinkResponse
// @Failure 404 {object} map[string]string "Link not found"
// @Router /links/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	bookmark, err := h.store.Read(c.Request.Context(), id)
	if err != nil {
		errs.Respond(c, err)
		return
	}

	// Private links do not exist for anonymous callers
	if bookmark.Private && !auth.IsAuthorized(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found", "kind": "not_found"})
		return
	}

	c.JSON(http.StatusOK, linkToResponse(*bookmark))
}

// Create creates a new link
// @Summary Create a link
// @Description Store a link, filling omitted fields from the page's metadata
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 502 {object} map[string]string "Page could not be fetched"
// @Security BearerAuth
// @Router /links [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	bookmark, err := h.store.Create(c.Request.Context(), CreateInput{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Private:     req.Private,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	})
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, linkToResponse(*bookmark))
}

// Update updates a link
// @Summary Update a link
// @Description Change the supplied fields; tags replaces the whole tag set
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body UpdateLinkRequest true "Fields to change"
// @Success 200 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	bookmark, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Private:     req.Private,
		Tags:        req.Tags,
	})
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, linkToResponse(*bookmark))
}

// Delete deletes a link
// @Summary Delete a link
// @Tags links
// @Param id path int true "Link ID"
// @Success 204
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		errs.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Purge deletes every link
// @Summary Delete all links
// @Description Remove every link and tag association; tags are kept
// @Tags links
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /links [delete]
func (h *Handler) Purge(c *gin.Context) {
	removed, err := h.store.Purge(c.Request.Context())
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// RegisterRoutes registers the read-only link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links", h.Search)
	rg.GET("/links/:id", h.Get)
}

// RegisterWriteRoutes registers the routes that modify links
func (h *Handler) RegisterWriteRoutes(rg *gin.RouterGroup) {
	rg.POST("/links", h.Create)
	rg.PUT("/links/:id", h.Update)
	rg.DELETE("/links/:id", h.Delete)
	rg.DELETE("/links", h.Purge)
}
