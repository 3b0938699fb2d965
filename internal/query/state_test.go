package query

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() State {
	return New().With(map[string]Value{
		KeyPage:    Int(3),
		KeyPerPage: Int(20),
		"search":   String("austin"),
		"type":     List("office", "retail"),
	})
}

func TestWithPerPageResetsPageAndKeepsFilters(t *testing.T) {
	next := seeded().Set(KeyPerPage, Int(50))

	want := url.Values{
		"page":     {"1"},
		"per_page": {"50"},
		"search":   {"austin"},
		"type[]":   {"office", "retail"},
	}
	if diff := cmp.Diff(want, next.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestWithSamePerPageKeepsPage(t *testing.T) {
	next := seeded().Set(KeyPerPage, String("20"))
	assert.Equal(t, 3, next.Page())
}

func TestWithOtherFilterKeepsPage(t *testing.T) {
	next := seeded().Set("search", String("dallas"))
	assert.Equal(t, 3, next.Page())
	assert.Equal(t, "dallas", next.Text("search"))
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := seeded()
	_ = base.Set("search", String("dallas"))
	assert.Equal(t, "austin", base.Text("search"))
}

func TestValuesDistinguishUnsetFromCleared(t *testing.T) {
	st := seeded().With(map[string]Value{
		"search": String(""),
		"type":   Unset(),
	})
	q := st.Values()

	vals, ok := q["search"]
	require.True(t, ok)
	assert.Equal(t, []string{""}, vals)
	_, ok = q["type[]"]
	assert.False(t, ok)
	assert.Contains(t, st.Encode(), "search=&")
}

func TestWithSortFlipsSameColumn(t *testing.T) {
	st := New().WithSort("name")
	assert.Equal(t, Sort{By: "name", Dir: Asc}, st.Sort)

	st = st.WithSort("name")
	assert.Equal(t, Desc, st.Sort.Dir)

	st = st.WithSort("name")
	assert.Equal(t, Asc, st.Sort.Dir)

	st = st.WithSort("city")
	assert.Equal(t, Sort{By: "city", Dir: Asc}, st.Sort)

	q := st.Values()
	assert.Equal(t, "city", q.Get(KeySortBy))
	assert.Equal(t, "asc", q.Get(KeySortDir))
}

func TestFromValuesRoundTrip(t *testing.T) {
	st := seeded().WithSort("price").WithSort("price").Set(KeyView, String(ViewGallery))
	back := FromValues(st.Values())

	assert.True(t, st.Equal(back))
	assert.Equal(t, ViewGallery, back.View())
	assert.Equal(t, Sort{By: "price", Dir: Desc}, back.Sort)
	assert.Equal(t, []string{"office", "retail"}, back.Filters["type"].Strings())
}

func TestFromPropsSkipsNullFilters(t *testing.T) {
	st := FromProps(map[string]any{
		"search":   "austin",
		"per_page": float64(25),
		"state":    nil,
		"type":     []any{"office", "retail"},
		"featured": true,
	}, Sort{By: "name"})

	_, ok := st.Get("state")
	assert.False(t, ok)
	assert.Equal(t, 25, st.PerPage(10))
	assert.Equal(t, "true", st.Text("featured"))
	assert.Equal(t, Asc, st.Sort.Dir)
	assert.Equal(t, []string{"state"}, missingKeys(st, "search", "per_page", "state", "type", "featured"))
}

func missingKeys(st State, keys ...string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := st.Get(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

func TestPageAndViewDefaults(t *testing.T) {
	st := New()
	assert.Equal(t, 1, st.Page())
	assert.Equal(t, 15, st.PerPage(15))
	assert.Equal(t, ViewList, st.View())

	st = st.Set(KeyPage, String("zero"))
	assert.Equal(t, 1, st.Page())
}

func TestValueEqualityAcrossKinds(t *testing.T) {
	assert.True(t, String("3").Equal(Int(3)))
	assert.False(t, List("3").Equal(String("3")))
	assert.True(t, Unset().Equal(Value{}))
	assert.False(t, Unset().Equal(String("")))
}

func TestKeysSorted(t *testing.T) {
	assert.Equal(t, []string{"page", "per_page", "search", "type"}, seeded().Keys())
}
