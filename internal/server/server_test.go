package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/listingdb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := listingdb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, listingdb.Seed(context.Background(), db))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(db, log)
}

func get(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder, entity string) api.PageProps[T] {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	var props api.PageProps[T]
	require.NoError(t, json.Unmarshal(doc[entity], &props.Page))
	require.NoError(t, json.Unmarshal(doc["filters"], &props.Filters))
	require.NoError(t, json.Unmarshal(doc["sort"], &props.Sort))
	return props
}

func TestHealth(t *testing.T) {
	w := get(t, testRouter(t), "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(api.RequestIDHeader))
}

func TestDirectoryPageContract(t *testing.T) {
	w := get(t, testRouter(t), "/api/brokers?page=3&per_page=20&sort_by=name&sort_dir=desc&view=gallery")
	require.Equal(t, http.StatusOK, w.Code)

	props := decode[api.Broker](t, w, "brokers")
	page := props.Page
	require.NoError(t, page.Validate())
	assert.Len(t, page.Data, 20)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 20, page.PerPage)
	assert.Equal(t, listingdb.SeedBrokers, page.Total)
	assert.Equal(t, LastPage(listingdb.SeedBrokers, 20), page.LastPage)
	assert.Equal(t, 41, *page.From)
	assert.Equal(t, 60, *page.To)

	assert.Equal(t, api.SortProps{By: "name", Dir: "desc"}, props.Sort)
	assert.Equal(t, "gallery", props.Filters["view"])
	assert.Equal(t, float64(3), props.Filters["page"])
	assert.Equal(t, float64(20), props.Filters["per_page"])
}

func TestDirectoryEmptyResult(t *testing.T) {
	w := get(t, testRouter(t), "/api/companies?search=zzzz-no-match")
	require.Equal(t, http.StatusOK, w.Code)

	props := decode[api.Company](t, w, "companies")
	require.NoError(t, props.Page.Validate())
	assert.Empty(t, props.Page.Data)
	assert.Nil(t, props.Page.From)
	assert.Nil(t, props.Page.To)
	assert.Equal(t, 1, props.Page.LastPage)
	assert.Equal(t, "zzzz-no-match", props.Filters["search"])
}

func TestDirectoryPastLastPageClamps(t *testing.T) {
	w := get(t, testRouter(t), "/api/funds?page=40")
	require.Equal(t, http.StatusOK, w.Code)

	props := decode[api.Fund](t, w, "funds")
	require.NoError(t, props.Page.Validate())
	assert.Equal(t, props.Page.LastPage, props.Page.CurrentPage)
	assert.NotEmpty(t, props.Page.Data)
}

func TestDirectoryListFiltersEcho(t *testing.T) {
	q := url.Values{"property_type[]": {"office", "retail"}}
	w := get(t, testRouter(t), "/api/listings?"+q.Encode())
	require.Equal(t, http.StatusOK, w.Code)

	props := decode[api.Listing](t, w, "listings")
	assert.Equal(t, []any{"office", "retail"}, props.Filters["property_type"])
	for _, row := range props.Page.Data {
		require.NotNil(t, row.PropertyType)
		assert.Contains(t, []string{"office", "retail"}, *row.PropertyType)
	}
}

func TestDirectoryRateUnitMonthly(t *testing.T) {
	router := testRouter(t)
	w := get(t, router, "/api/listings?rate_unit=monthly&rate_min=500&rate_max=1000&per_page=100")
	require.Equal(t, http.StatusOK, w.Code)

	props := decode[api.Listing](t, w, "listings")
	for _, row := range props.Page.Data {
		require.NotNil(t, row.Rate)
		assert.GreaterOrEqual(t, *row.Rate, 6000.0)
		assert.LessOrEqual(t, *row.Rate, 12000.0)
	}
}

func TestDirectoryErrors(t *testing.T) {
	router := testRouter(t)

	w := get(t, router, "/api/agents")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = get(t, router, "/api/brokers?sort_by=password")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_QUERY")

	w = get(t, router, "/api/listings?price_min=cheap")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(api.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(api.RequestIDHeader))
}

func TestClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, "")

	props, err := api.FetchPage[api.Transaction](context.Background(), client, "/api/transactions", "transactions",
		url.Values{"per_page": {"25"}})
	require.NoError(t, err)
	require.NoError(t, props.Page.Validate())
	assert.Len(t, props.Page.Data, 25)

	var next string
	for _, l := range props.Page.Links {
		if l.Label == NextLabel && l.URL != nil {
			next = *l.URL
		}
	}
	require.NotEmpty(t, next)

	second, err := api.FetchLink[api.Transaction](context.Background(), client, next, "transactions")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Page.CurrentPage)
	assert.Equal(t, 25, second.Page.PerPage)
	assert.NotEqual(t, props.Page.Data[0].ID, second.Page.Data[0].ID)
}
