// Package errs holds the catalog's error kinds and their mapping onto HTTP
// responses.
package errs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sentinel errors returned by the catalog stores. Stores wrap them with
// context, so callers must compare with errors.Is.
var (
	// ErrNotFound is returned when a link or tag does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would violate a uniqueness rule
	// that get-or-insert does not resolve, e.g. renaming onto an existing tag.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for malformed pagination or filter parameters.
	ErrValidation = errors.New("invalid parameters")

	// ErrFetch is returned when page metadata could not be retrieved.
	ErrFetch = errors.New("fetch failed")
)

// Kind names the error class in API responses.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrFetch):
		return "fetch"
	default:
		return "internal"
	}
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch Kind(err) {
	case "not_found":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	case "validation":
		return http.StatusBadRequest
	case "fetch":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error body. Internal errors are not echoed to
// the client.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": message, "kind": Kind(err)})
}
