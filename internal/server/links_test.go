package server

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(t *testing.T, current, last int) []string {
	t.Helper()
	base, err := url.Parse("http://localhost:8000/api/brokers?search=dana&page=1")
	require.NoError(t, err)
	links := Links(base, current, last)
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Label)
	}
	return out
}

func TestLinksSmallSetShowsEveryPage(t *testing.T) {
	assert.Equal(t, []string{PrevLabel, "1", "2", "3", NextLabel}, labels(t, 2, 3))
	assert.Len(t, labels(t, 1, 13), 15)
}

func TestLinksNearBeginning(t *testing.T) {
	want := []string{PrevLabel, "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "...", "19", "20", NextLabel}
	assert.Equal(t, want, labels(t, 4, 20))
}

func TestLinksNearEnd(t *testing.T) {
	want := []string{PrevLabel, "1", "2", "...", "11", "12", "13", "14", "15", "16", "17", "18", "19", "20", NextLabel}
	assert.Equal(t, want, labels(t, 18, 20))
}

func TestLinksMiddleWindow(t *testing.T) {
	want := []string{PrevLabel, "1", "2", "...", "7", "8", "9", "10", "11", "12", "13", "...", "19", "20", NextLabel}
	assert.Equal(t, want, labels(t, 10, 20))
}

func TestLinksBoundariesAndActive(t *testing.T) {
	base, _ := url.Parse("http://localhost:8000/api/brokers?search=dana")

	first := Links(base, 1, 5)
	assert.Nil(t, first[0].URL)
	require.NotNil(t, first[len(first)-1].URL)
	assert.Contains(t, *first[len(first)-1].URL, "page=2")
	assert.Contains(t, *first[len(first)-1].URL, "search=dana")

	last := Links(base, 5, 5)
	assert.NotNil(t, last[0].URL)
	assert.Nil(t, last[len(last)-1].URL)

	active := 0
	for _, l := range Links(base, 10, 20) {
		if l.Active {
			active++
			assert.Equal(t, "10", l.Label)
		}
		if l.Label == EllipsisLabel {
			assert.Nil(t, l.URL)
		}
	}
	assert.Equal(t, 1, active)
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 15))
	assert.Equal(t, 1, LastPage(15, 15))
	assert.Equal(t, 2, LastPage(16, 15))
	assert.Equal(t, 14, LastPage(204, 15))
}
