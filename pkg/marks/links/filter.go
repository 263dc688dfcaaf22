package links

import (
	"strings"

	"github.com/mikepea/marks/pkg/marks/paging"
	"gorm.io/gorm/clause"
)

// Visibility restricts a search by the private flag
type Visibility string

const (
	VisibilityAll     Visibility = "all"
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Filter selects links for Search. Zero-valued fields do not restrict the
// result.
type Filter struct {
	Term       string
	Tags       []string
	MatchAll   bool
	Visibility Visibility
	Page       paging.Page
}

// matchAll stands in for an absent parameter so every filter compiles to the
// same shape.
var matchAll = clause.Expr{SQL: "1 = 1"}

const tagExists = "EXISTS (SELECT 1 FROM links_tags JOIN tags ON tags.id = links_tags.tag_id " +
	"WHERE links_tags.link_id = links.id AND tags.name = ?)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// anyOf joins exprs with OR. A single expression is returned as is, since
// GORM joins a one-element OR group to its neighbours with OR.
func anyOf(exprs []clause.Expression) clause.Expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return clause.Or(exprs...)
}

// TermPredicate matches links whose title or description contains term,
// ignoring case.
func TermPredicate(term string) clause.Expression {
	if term == "" {
		return matchAll
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return anyOf([]clause.Expression{
		clause.Expr{SQL: `LOWER(links.title) LIKE ? ESCAPE '\'`, Vars: []interface{}{pattern}},
		clause.Expr{SQL: `LOWER(links.description) LIKE ? ESCAPE '\'`, Vars: []interface{}{pattern}},
	})
}

// TagPredicate matches links carrying any of names, or all of them when all
// is set.
func TagPredicate(names []string, all bool) clause.Expression {
	var exprs []clause.Expression
	for _, name := range names {
		if name == "" {
			continue
		}
		exprs = append(exprs, clause.Expr{SQL: tagExists, Vars: []interface{}{name}})
	}

	switch {
	case len(exprs) == 0:
		return matchAll
	case all:
		return clause.And(exprs...)
	default:
		return anyOf(exprs)
	}
}

// VisibilityPredicate matches links by their private flag. Values other than
// private and public do not filter.
func VisibilityPredicate(v Visibility) clause.Expression {
	switch v {
	case VisibilityPrivate:
		return clause.Expr{SQL: "links.private = ?", Vars: []interface{}{true}}
	case VisibilityPublic:
		return clause.Expr{SQL: "links.private = ?", Vars: []interface{}{false}}
	default:
		return matchAll
	}
}

// Compile returns the WHERE predicate for f. User input only ever reaches
// the query as bound parameters.
func (f Filter) Compile() clause.Expression {
	return clause.And(
		TermPredicate(f.Term),
		TagPredicate(f.Tags, f.MatchAll),
		VisibilityPredicate(f.Visibility),
	)
}

// SplitTags parses a "+"-delimited tag list.
func SplitTags(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, "+") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
