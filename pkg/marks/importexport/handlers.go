// Package importexport moves links in and out in Pinboard's JSON format.
package importexport

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/errs"
	"github.com/mikepea/marks/pkg/marks/links"
	"github.com/mikepea/marks/pkg/marks/paging"
)

// Handler handles import/export requests
type Handler struct {
	links *links.Store
}

// NewHandler creates a new import/export handler
func NewHandler(store *links.Store) *Handler {
	return &Handler{links: store}
}

// PinboardBookmark represents a bookmark in Pinboard JSON format
type PinboardBookmark struct {
	Href        string `json:"href"`
	Description string `json:"description"`
	Extended    string `json:"extended"`
	Tags        string `json:"tags"`
	Time        string `json:"time"`
	Shared      string `json:"shared"`
	ToRead      string `json:"toread"`
	Meta        string `json:"meta,omitempty"`
	Hash        string `json:"hash,omitempty"`
}

// ImportRequest represents an import request
type ImportRequest struct {
	Bookmarks []PinboardBookmark `json:"bookmarks" binding:"required"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ExportBookmark represents a bookmark for export
type ExportBookmark struct {
	Href        string `json:"href"`
	Description string `json:"description"`
	Extended    string `json:"extended"`
	Tags        string `json:"tags"`
	Time        string `json:"time"`
	Shared      string `json:"shared"`
	ToRead      string `json:"toread"`
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02T15:04:05Z", value)
}

// toInput converts a Pinboard bookmark. Every field is supplied so that
// importing never fetches pages.
func toInput(b PinboardBookmark) (links.CreateInput, error) {
	private := b.Shared != "yes"
	tags := strings.Fields(b.Tags)
	if tags == nil {
		tags = []string{}
	}

	in := links.CreateInput{
		URL:         b.Href,
		Title:       &b.Description,
		Description: &b.Extended,
		Tags:        tags,
		Private:     &private,
	}
	if b.Time != "" {
		created, err := parseTime(b.Time)
		if err != nil {
			return in, err
		}
		in.CreatedAt = &created
		in.UpdatedAt = &created
	}
	return in, nil
}

func toExport(b links.Bookmark) ExportBookmark {
	shared := "no"
	if !b.Private {
		shared = "yes"
	}

	return ExportBookmark{
		Href:        b.URL,
		Description: b.Title,
		Extended:    b.Description,
		Tags:        strings.Join(b.Tags, " "),
		Time:        b.CreatedAt.UTC().Format(time.RFC3339),
		Shared:      shared,
		ToRead:      "no",
	}
}

// Import imports bookmarks from Pinboard JSON format
// @Summary Import bookmarks
// @Tags import-export
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Pinboard bookmarks"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := ImportResult{
		Errors: []string{},
	}

	for i, bookmark := range req.Bookmarks {
		in, err := toInput(bookmark)
		if err != nil {
			result.Errors = append(result.Errors, "bookmark "+strconv.Itoa(i)+": invalid time format")
			result.Skipped++
			continue
		}

		if _, err := h.links.Create(c.Request.Context(), in); err != nil {
			result.Errors = append(result.Errors, "bookmark "+strconv.Itoa(i)+": "+err.Error())
			result.Skipped++
			continue
		}

		result.Imported++
	}

	c.JSON(http.StatusOK, result)
}

// Export exports every link to Pinboard JSON format
// @Summary Export bookmarks
// @Tags import-export
// @Produce json
// @Param download query bool false "Send as an attachment"
// @Success 200 {array} ExportBookmark
// @Security BearerAuth
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	bookmarks, err := h.links.Search(c.Request.Context(), links.Filter{Page: paging.All()})
	if err != nil {
		errs.Respond(c, err)
		return
	}

	exported := make([]ExportBookmark, len(bookmarks))
	for i, b := range bookmarks {
		exported[i] = toExport(b)
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=marks-export.json")
	}

	c.JSON(http.StatusOK, exported)
}

// ExportSingle exports the link behind an alias
// @Summary Export one bookmark
// @Tags import-export
// @Produce json
// @Param shorturl path string true "Link alias"
// @Success 200 {object} ExportBookmark
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /export/{shorturl} [get]
func (h *Handler) ExportSingle(c *gin.Context) {
	bookmark, err := h.links.ReadByAlias(c.Request.Context(), c.Param("shorturl"))
	if err != nil {
		errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toExport(*bookmark))
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
	rg.GET("/export", h.Export)
	rg.GET("/export/:shorturl", h.ExportSingle)
}
