// Package paging parses offset/limit query parameters shared by the list
// endpoints.
package paging

import (
	"fmt"
	"strconv"

	"github.com/mikepea/marks/pkg/marks/errs"
	"gorm.io/gorm"
)

// DefaultLimit is used when no limit is given.
const DefaultLimit = 20

// Unbounded is the limit value that disables pagination.
const Unbounded = "all"

// Page selects a window of an ordered result set.
type Page struct {
	Offset int
	Limit  int
	All    bool
}

// All returns a page covering the whole result set.
func All() Page {
	return Page{All: true}
}

// Parse builds a page from raw offset and limit values. Empty values take
// their defaults. A limit of "all" ignores the offset.
func Parse(offset, limit string) (Page, error) {
	if limit == Unbounded {
		return All(), nil
	}

	page := Page{Limit: DefaultLimit}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: limit must be a positive integer or %q", errs.ErrValidation, Unbounded)
		}
		page.Limit = n
	}
	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("%w: offset must be a non-negative integer", errs.ErrValidation)
		}
		page.Offset = n
	}
	return page, nil
}

// Scope applies the page to a query. Use it as db.Scopes(page.Scope).
func (p Page) Scope(db *gorm.DB) *gorm.DB {
	if p.All {
		return db
	}
	return db.Offset(p.Offset).Limit(p.Limit)
}
