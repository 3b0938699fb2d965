// Package query models the filter, sort and paging selection of a directory
// page and its round trip through URL query parameters.
package query

import (
	"fmt"
	"maps"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Reserved filter keys.
const (
	KeyPage    = "page"
	KeyPerPage = "per_page"
	KeyView    = "view"
	KeySortBy  = "sort_by"
	KeySortDir = "sort_dir"
)

// View modes.
const (
	ViewList    = "list"
	ViewGallery = "gallery"
)

// Dir is a sort direction.
type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

// ParseDir maps anything but "desc" to Asc.
func ParseDir(s string) Dir {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Sort is the server-side ordering of a directory.
type Sort struct {
	By  string
	Dir Dir
}

// State is the full navigable selection of a directory page.
type State struct {
	Filters map[string]Value
	Sort    Sort
}

// New returns an empty state.
func New() State {
	return State{Filters: map[string]Value{}}
}

// Clone deep-copies the filter map.
func (s State) Clone() State {
	out := State{Filters: make(map[string]Value, len(s.Filters)), Sort: s.Sort}
	maps.Copy(out.Filters, s.Filters)
	return out
}

// Get returns the value of key and whether it is set.
func (s State) Get(key string) (Value, bool) {
	v, ok := s.Filters[key]
	if !ok || v.IsUnset() {
		return Value{}, false
	}
	return v, true
}

// Text returns the wire text of key, or "" when unset.
func (s State) Text(key string) string {
	v, _ := s.Get(key)
	return v.Text()
}

// With merges changes over the current filters. Unset values remove their
// key. A per_page change sends the user back to page 1 unless the same
// change names a page.
func (s State) With(changes map[string]Value) State {
	out := s.Clone()
	for k, v := range changes {
		if v.IsUnset() {
			delete(out.Filters, k)
			continue
		}
		out.Filters[k] = v
	}
	if next, ok := changes[KeyPerPage]; ok {
		_, pageGiven := changes[KeyPage]
		prev, had := s.Get(KeyPerPage)
		if !pageGiven && (!had || !prev.Equal(next)) {
			out.Filters[KeyPage] = Int(1)
		}
	}
	return out
}

// Set is With for a single key.
func (s State) Set(key string, v Value) State {
	return s.With(map[string]Value{key: v})
}

// WithSort orders by column. Re-selecting the current column flips the
// direction; a new column starts ascending.
func (s State) WithSort(by string) State {
	out := s.Clone()
	if s.Sort.By == by {
		if s.Sort.Dir == Desc {
			out.Sort.Dir = Asc
		} else {
			out.Sort.Dir = Desc
		}
		return out
	}
	out.Sort = Sort{By: by, Dir: Asc}
	return out
}

// Page is the requested page number, 1 when missing or invalid.
func (s State) Page() int {
	return s.positiveInt(KeyPage, 1)
}

// PerPage is the requested page size, fallback when missing or invalid.
func (s State) PerPage(fallback int) int {
	return s.positiveInt(KeyPerPage, fallback)
}

func (s State) positiveInt(key string, fallback int) int {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	f, ok := v.Float()
	if !ok || f < 1 {
		return fallback
	}
	return int(f)
}

// View is the view mode, list unless gallery was selected.
func (s State) View() string {
	if s.Text(KeyView) == ViewGallery {
		return ViewGallery
	}
	return ViewList
}

// Values flattens the state into query parameters. Unset keys are omitted,
// cleared string filters are kept as "k=", lists are sent as "k[]".
func (s State) Values() url.Values {
	q := url.Values{}
	for k, v := range s.Filters {
		switch v.Kind() {
		case KindUnset:
			continue
		case KindList:
			key := k + "[]"
			for _, item := range v.Strings() {
				q.Add(key, item)
			}
		default:
			q.Set(k, v.Text())
		}
	}
	if s.Sort.By != "" {
		q.Set(KeySortBy, s.Sort.By)
		dir := s.Sort.Dir
		if dir == "" {
			dir = Asc
		}
		q.Set(KeySortDir, string(dir))
	}
	return q
}

// Encode is Values().Encode().
func (s State) Encode() string {
	return s.Values().Encode()
}

// FromValues parses query parameters produced by Values.
func FromValues(q url.Values) State {
	st := New()
	for k, vals := range q {
		switch {
		case k == KeySortBy:
			if len(vals) > 0 {
				st.Sort.By = vals[0]
			}
		case k == KeySortDir:
			if len(vals) > 0 {
				st.Sort.Dir = ParseDir(vals[0])
			}
		case strings.HasSuffix(k, "[]"):
			st.Filters[strings.TrimSuffix(k, "[]")] = List(vals...)
		case len(vals) > 0:
			st.Filters[k] = scalar(k, vals[0])
		}
	}
	if st.Sort.By != "" && st.Sort.Dir == "" {
		st.Sort.Dir = Asc
	}
	return st
}

func scalar(key, raw string) Value {
	if key == KeyPage || key == KeyPerPage {
		if n, err := strconv.Atoi(raw); err == nil {
			return Int(n)
		}
	}
	return String(raw)
}

// FromProps seeds a state from the filters and sort echoed by the server.
// Null filters are treated as unset.
func FromProps(filters map[string]any, order Sort) State {
	st := New()
	for k, raw := range filters {
		if v, ok := fromAny(raw); ok {
			st.Filters[k] = v
		}
	}
	st.Sort = order
	if st.Sort.By != "" && st.Sort.Dir == "" {
		st.Sort.Dir = Asc
	}
	return st
}

func fromAny(raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return Value{}, false
	case string:
		return String(v), true
	case float64:
		return Number(v), true
	case int:
		return Int(v), true
	case bool:
		return String(strconv.FormatBool(v)), true
	case []string:
		return List(v...), true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			items = append(items, fmt.Sprint(item))
		}
		return List(items...), true
	default:
		return String(fmt.Sprint(v)), true
	}
}

// Equal reports whether both states would produce the same request.
func (s State) Equal(o State) bool {
	return s.Values().Encode() == o.Values().Encode()
}

// Keys lists the set filter keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k, v := range s.Filters {
		if !v.IsUnset() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
