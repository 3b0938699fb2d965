package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Link is one entry of the server-rendered pagination control. A nil URL
// marks a disabled entry such as "Previous" on the first page or an
// ellipsis.
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is one server-paginated slice of rows.
type Page[T any] struct {
	Data        []T    `json:"data"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int    `json:"total"`
	From        *int   `json:"from"`
	To          *int   `json:"to"`
	Links       []Link `json:"links"`
}

// SortProps is the ordering echoed by the server.
type SortProps struct {
	By  string `json:"by"`
	Dir string `json:"dir"`
}

// PageProps is the full document a directory page renders: the page of
// rows under the directory's entity key plus the echoed filters and sort.
type PageProps[T any] struct {
	Entity  string         `json:"-"`
	Page    Page[T]        `json:"-"`
	Filters map[string]any `json:"filters"`
	Sort    SortProps      `json:"sort"`
}

// MarshalJSON writes the page under its entity key.
func (p PageProps[T]) MarshalJSON() ([]byte, error) {
	entity := p.Entity
	if entity == "" {
		entity = "data"
	}
	filters := p.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	return json.Marshal(map[string]any{
		entity:    p.Page,
		"filters": filters,
		"sort":    p.Sort,
	})
}

// ErrMissingEntity is returned when the response lacks the entity key.
var ErrMissingEntity = errors.New("response missing entity key")

func decodePageProps[T any](data []byte, entity string) (*PageProps[T], error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	raw, ok := doc[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingEntity, entity)
	}

	props := &PageProps[T]{Entity: entity, Filters: map[string]any{}}
	if err := json.Unmarshal(raw, &props.Page); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entity, err)
	}
	if props.Page.Data == nil {
		props.Page.Data = []T{}
	}
	if f, ok := doc["filters"]; ok && string(f) != "null" {
		// an empty filter set may arrive as [] from some backends
		if strings.HasPrefix(strings.TrimSpace(string(f)), "{") {
			if err := json.Unmarshal(f, &props.Filters); err != nil {
				return nil, fmt.Errorf("decode filters: %w", err)
			}
		}
	}
	if s, ok := doc["sort"]; ok && string(s) != "null" {
		if err := json.Unmarshal(s, &props.Sort); err != nil {
			return nil, fmt.Errorf("decode sort: %w", err)
		}
	}
	return props, nil
}

// FetchPage requests one page of a directory with the given query.
func FetchPage[T any](ctx context.Context, c *Client, path, entity string, q url.Values) (*PageProps[T], error) {
	data, err := c.get(ctx, buildQuery(path, q))
	if err != nil {
		return nil, err
	}
	return decodePageProps[T](data, entity)
}

// FetchLink follows a pagination link. Only the link's path and query are
// used; the host is always the client's base URL.
func FetchLink[T any](ctx context.Context, c *Client, link, entity string) (*PageProps[T], error) {
	target, err := LinkTarget(link)
	if err != nil {
		return nil, err
	}
	data, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}
	return decodePageProps[T](data, entity)
}

// LinkTarget reduces a pagination URL to its request URI.
func LinkTarget(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}
	if u.Path == "" {
		return "", fmt.Errorf("parse link: %q has no path", link)
	}
	return u.RequestURI(), nil
}

// LinkQuery returns the query parameters encoded in a pagination URL.
func LinkQuery(link string) (url.Values, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return nil, fmt.Errorf("parse link: %w", err)
	}
	return u.Query(), nil
}

// Validate checks the range and link invariants of a page.
func (p Page[T]) Validate() error {
	n := len(p.Data)
	if n == 0 {
		if p.From != nil || p.To != nil {
			return errors.New("empty page must have null from/to")
		}
	} else {
		if p.From == nil || p.To == nil {
			return errors.New("non-empty page must have from/to")
		}
		if *p.From < 1 || *p.To > p.Total || *p.From > *p.To {
			return fmt.Errorf("range %d-%d outside total %d", *p.From, *p.To, p.Total)
		}
		if *p.To-*p.From+1 != n {
			return fmt.Errorf("range %d-%d does not match %d rows", *p.From, *p.To, n)
		}
	}
	if p.PerPage > 0 && n > p.PerPage {
		return fmt.Errorf("%d rows exceed per_page %d", n, p.PerPage)
	}
	if p.LastPage > 0 && (p.CurrentPage < 1 || p.CurrentPage > p.LastPage) {
		return fmt.Errorf("current page %d outside 1..%d", p.CurrentPage, p.LastPage)
	}

	active := 0
	for _, l := range p.Links {
		if l.Active {
			active++
		}
	}
	if len(p.Links) > 0 && active != 1 {
		return fmt.Errorf("expected exactly one active link, got %d", active)
	}
	return nil
}

// Range describes the visible slice, e.g. "Showing 16 to 30 of 204".
func (p Page[T]) Range() (from, to int, ok bool) {
	if p.From == nil || p.To == nil {
		return 0, 0, false
	}
	return *p.From, *p.To, true
}
