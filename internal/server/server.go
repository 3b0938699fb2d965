// Package server is the demo listing API behind `credir serve`. It answers
// every directory with the page-prop document the browser renders.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/listingdb"
	"github.com/sirupsen/logrus"
	ginlog "github.com/toorop/gin-logrus"
)

// MonthsPerYear converts monthly rate bounds to the stored annual rate.
const MonthsPerYear = 12

type fetchFunc func(ctx context.Context, db *listingdb.DB, entity string, p listingdb.Params, base *url.URL) (any, error)

// handlers maps each directory to its typed page builder.
var handlers = map[string]fetchFunc{
	"brokers":      fetch[api.Broker],
	"companies":    fetch[api.Company],
	"locations":    fetch[api.Location],
	"funds":        fetch[api.Fund],
	"listings":     fetch[api.Listing],
	"transactions": fetch[api.Transaction],
}

// New builds the gin router.
func New(db *listingdb.DB, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestID(), ginlog.Logger(log), gin.Recovery())

	routerapi := router.Group("/api")
	routerapi.GET("/health", func(ctx *gin.Context) {
		if err := db.PingContext(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	routerapi.GET("/:entity", func(ctx *gin.Context) {
		listDirectory(ctx, db, log)
	})
	return router
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(api.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Header(api.RequestIDHeader, id)
		ctx.Set("request_id", id)
		ctx.Next()
	}
}

func apiError(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func listDirectory(ctx *gin.Context, db *listingdb.DB, log *logrus.Logger) {
	entity := ctx.Param("entity")
	def, ok := listingdb.Lookup(entity)
	handler, hok := handlers[entity]
	if !ok || !hok {
		apiError(ctx, http.StatusNotFound, "NOT_FOUND", "unknown directory "+entity)
		return
	}

	q := ctx.Request.URL.Query()
	params, err := ParseParams(def, q)
	if err != nil {
		apiError(ctx, http.StatusUnprocessableEntity, "INVALID_QUERY", err.Error())
		return
	}

	base := requestURL(ctx.Request)
	doc, err := handler(ctx.Request.Context(), db, entity, params, base)
	if err != nil {
		if errors.Is(err, listingdb.ErrUnknownSort) || errors.Is(err, listingdb.ErrUnknownFilter) {
			apiError(ctx, http.StatusUnprocessableEntity, "INVALID_QUERY", err.Error())
			return
		}
		log.WithFields(logrus.Fields{
			"entity":     entity,
			"request_id": ctx.GetString("request_id"),
		}).WithError(err).Error("directory query failed")
		apiError(ctx, http.StatusInternalServerError, "INTERNAL", "query failed")
		return
	}
	ctx.JSON(http.StatusOK, doc)
}

func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
}

// ParseParams reads the directory query: search, exact filters (k or k[]),
// ranges as <k>_min / <k>_max, sort_by / sort_dir and paging. A rate_unit
// of "monthly" converts rate bounds to the stored annual figure.
func ParseParams(def listingdb.Entity, q url.Values) (listingdb.Params, error) {
	p := listingdb.Params{
		Search:  q.Get("search"),
		Filters: map[string][]string{},
		Ranges:  map[string]listingdb.Bounds{},
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	p.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	for key := range def.Filters {
		vals := append(append([]string{}, q[key]...), q[key+"[]"]...)
		if len(vals) > 0 {
			p.Filters[key] = vals
		}
	}

	scale := 1.0
	if strings.EqualFold(q.Get("rate_unit"), "monthly") {
		scale = MonthsPerYear
	}
	for key := range def.Ranges {
		var b listingdb.Bounds
		var err error
		if b.Min, err = parseBound(q.Get(key + "_min")); err != nil {
			return p, errors.New(key + "_min: " + err.Error())
		}
		if b.Max, err = parseBound(q.Get(key + "_max")); err != nil {
			return p, errors.New(key + "_max: " + err.Error())
		}
		if key == "rate" {
			b = scaleBounds(b, scale)
		}
		if b.Min != nil || b.Max != nil {
			p.Ranges[key] = b
		}
	}
	return p, nil
}

func parseBound(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("not a number")
	}
	return &v, nil
}

func scaleBounds(b listingdb.Bounds, scale float64) listingdb.Bounds {
	if b.Min != nil {
		v := *b.Min * scale
		b.Min = &v
	}
	if b.Max != nil {
		v := *b.Max * scale
		b.Max = &v
	}
	return b
}

// fetch runs the query for one directory and shapes the page document.
// Requests past the last page are answered with the last page.
func fetch[T any](ctx context.Context, db *listingdb.DB, entity string, p listingdb.Params, base *url.URL) (any, error) {
	res, err := listingdb.Query[T](ctx, db, entity, p)
	if err != nil {
		return nil, err
	}
	last := LastPage(res.Total, res.PerPage)
	if res.Page > last {
		p.Page = last
		if res, err = listingdb.Query[T](ctx, db, entity, p); err != nil {
			return nil, err
		}
	}

	page := api.Page[T]{
		Data:        res.Rows,
		CurrentPage: res.Page,
		LastPage:    last,
		PerPage:     res.PerPage,
		Total:       res.Total,
	}
	if n := len(res.Rows); n > 0 {
		from := (res.Page-1)*res.PerPage + 1
		to := from + n - 1
		page.From, page.To = &from, &to
	}
	page.Links = Links(base, res.Page, last)

	def, _ := listingdb.Lookup(entity)
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = def.DefaultSort
	}
	dir := "asc"
	if strings.EqualFold(p.SortDir, "desc") {
		dir = "desc"
	}

	return api.PageProps[T]{
		Entity:  entity,
		Page:    page,
		Filters: echoFilters(base.Query(), res.Page, res.PerPage),
		Sort:    api.SortProps{By: sortBy, Dir: dir},
	}, nil
}

// echoFilters returns the request's filters as the page saw them: lists
// for k[] keys, numbers for paging, strings otherwise.
func echoFilters(q url.Values, page, perPage int) map[string]any {
	out := map[string]any{}
	for k, vals := range q {
		switch {
		case k == "sort_by" || k == "sort_dir":
		case strings.HasSuffix(k, "[]"):
			out[strings.TrimSuffix(k, "[]")] = vals
		case len(vals) > 0:
			out[k] = vals[0]
		}
	}
	out["page"] = page
	out["per_page"] = perPage
	return out
}
