package server

import (
	"net/url"
	"strconv"

	"github.com/gravitrone/credir/internal/api"
)

// Link labels, HTML-escaped the way the page contract ships them.
const (
	PrevLabel     = "&laquo; Previous"
	NextLabel     = "Next &raquo;"
	EllipsisLabel = "..."
)

// OnEachSide is the number of page links kept on each side of the current
// page once the window collapses.
const OnEachSide = 3

// LastPage returns the number of pages for total rows, at least 1.
func LastPage(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// window returns the page numbers to render, with 0 standing for an
// ellipsis.
func window(current, last, onEachSide int) []int {
	if last < onEachSide*2+8 {
		return pageRange(1, last)
	}

	span := onEachSide + 4
	start := []int{1, 2}
	finish := []int{last - 1, last}

	switch {
	case current <= span:
		return join(pageRange(1, span+onEachSide), finish)
	case current > last-span:
		return join(start, pageRange(last-(span+onEachSide-1), last))
	default:
		return join(start, pageRange(current-onEachSide, current+onEachSide), finish)
	}
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, p)
	}
	return out
}

func join(parts ...[]int) []int {
	var out []int
	for i, p := range parts {
		if i > 0 {
			out = append(out, 0)
		}
		out = append(out, p...)
	}
	return out
}

// Links renders the pagination control for current of last. base carries
// the request URL; each link keeps its query and replaces page.
func Links(base *url.URL, current, last int) []api.Link {
	pageURL := func(p int) *string {
		u := *base
		q := u.Query()
		q.Set("page", strconv.Itoa(p))
		u.RawQuery = q.Encode()
		s := u.String()
		return &s
	}

	links := make([]api.Link, 0, 16)

	prev := api.Link{Label: PrevLabel}
	if current > 1 {
		prev.URL = pageURL(current - 1)
	}
	links = append(links, prev)

	for _, p := range window(current, last, OnEachSide) {
		if p == 0 {
			links = append(links, api.Link{Label: EllipsisLabel})
			continue
		}
		links = append(links, api.Link{URL: pageURL(p), Label: strconv.Itoa(p), Active: p == current})
	}

	next := api.Link{Label: NextLabel}
	if current < last {
		next.URL = pageURL(current + 1)
	}
	links = append(links, next)

	return links
}
