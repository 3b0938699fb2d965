package listingdb

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Bounds is an optional numeric range; nil ends are open.
type Bounds struct {
	Min *float64
	Max *float64
}

// Params selects one page of an entity.
type Params struct {
	Search  string
	Filters map[string][]string
	Ranges  map[string]Bounds
	SortBy  string
	SortDir string
	Page    int
	PerPage int
}

// Result is a page of rows plus the total match count.
type Result[T any] struct {
	Rows    []T
	Total   int
	Page    int
	PerPage int
}

// Query errors.
var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownSort   = errors.New("unknown sort column")
	ErrUnknownFilter = errors.New("unknown filter")
)

// MaxPerPage caps page size.
const MaxPerPage = 100

// Normalize fills defaults and validates keys against the entity.
func (p Params) Normalize(e Entity) (Params, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 15
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.SortBy == "" {
		p.SortBy = e.DefaultSort
	}
	if _, ok := e.Sorts[p.SortBy]; !ok {
		return p, fmt.Errorf("%w: %s", ErrUnknownSort, p.SortBy)
	}
	if !strings.EqualFold(p.SortDir, "desc") {
		p.SortDir = "asc"
	} else {
		p.SortDir = "desc"
	}
	for k := range p.Filters {
		if _, ok := e.Filters[k]; !ok {
			return p, fmt.Errorf("%w: %s", ErrUnknownFilter, k)
		}
	}
	for k := range p.Ranges {
		if _, ok := e.Ranges[k]; !ok {
			return p, fmt.Errorf("%w: %s", ErrUnknownFilter, k)
		}
	}
	p.Search = strings.TrimSpace(p.Search)
	return p, nil
}

// where builds the WHERE clause and its arguments.
func where(e Entity, p Params) (string, []any) {
	var clauses []string
	var args []any

	if p.Search != "" && len(e.Search) > 0 {
		like := "%" + escapeLike(p.Search) + "%"
		parts := make([]string, 0, len(e.Search))
		for _, col := range e.Search {
			parts = append(parts, col+` LIKE ? ESCAPE '\'`)
			args = append(args, like)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	for _, key := range sortedKeys(p.Filters) {
		vals := nonEmpty(p.Filters[key])
		if len(vals) == 0 {
			continue
		}
		col := e.Filters[key]
		marks := strings.TrimSuffix(strings.Repeat("?,", len(vals)), ",")
		clauses = append(clauses, col+" IN ("+marks+")")
		for _, v := range vals {
			args = append(args, v)
		}
	}

	for _, key := range sortedKeys(p.Ranges) {
		b := p.Ranges[key]
		col := e.Ranges[key]
		if b.Min != nil {
			clauses = append(clauses, col+" >= ?")
			args = append(args, *b.Min)
		}
		if b.Max != nil {
			clauses = append(clauses, col+" <= ?")
			args = append(args, *b.Max)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Query returns one page of entity rows scanned into T.
func Query[T any](ctx context.Context, db *DB, entity string, p Params) (Result[T], error) {
	e, ok := Lookup(entity)
	if !ok {
		return Result[T]{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	p, err := p.Normalize(e)
	if err != nil {
		return Result[T]{}, err
	}

	cond, args := where(e, p)

	var total int
	if err := db.GetContext(ctx, &total, "SELECT COUNT(*) FROM "+e.Table+cond, args...); err != nil {
		return Result[T]{}, fmt.Errorf("count %s: %w", entity, err)
	}

	// NULLs last in both directions; id keeps equal keys in a stable order
	col := e.Sorts[p.SortBy]
	order := fmt.Sprintf(" ORDER BY %s IS NULL, %s %s, id ASC", col, col, strings.ToUpper(p.SortDir))
	stmt := "SELECT " + strings.Join(e.Columns, ", ") + " FROM " + e.Table + cond + order + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), p.PerPage, (p.Page-1)*p.PerPage)

	rows := []T{}
	if err := db.SelectContext(ctx, &rows, stmt, pageArgs...); err != nil {
		return Result[T]{}, fmt.Errorf("select %s: %w", entity, err)
	}

	return Result[T]{Rows: rows, Total: total, Page: p.Page, PerPage: p.PerPage}, nil
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
