package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rustamli/dashboard-api/internal/pagination"
)

// listQuery captures how a list endpoint was asked to shape its response:
// plain (no query), an explicit page window, or the auto policy.
type listQuery struct {
	windowed  bool
	auto      bool
	threshold int
	params    pagination.Params
}

// parseListQuery reads page/limit/auto/threshold from the query string.
// Presence of either page or limit selects the paginated shape, with the
// absent one defaulting (page 1, limit 10) — the backward-compatible dual
// contract of the list endpoints.
func parseListQuery(c echo.Context) listQuery {
	pageStr := c.QueryParam("page")
	limitStr := c.QueryParam("limit")

	q := listQuery{
		windowed:  pageStr != "" || limitStr != "",
		threshold: pagination.DefaultThreshold,
		params:    pagination.Params{Page: 1, Limit: 10},
	}
	if n, err := strconv.Atoi(pageStr); err == nil && n >= 1 {
		q.params.Page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n >= 1 {
		q.params.Limit = n
	}
	switch c.QueryParam("auto") {
	case "true", "1":
		q.auto = true
	}
	if n, err := strconv.Atoi(c.QueryParam("threshold")); err == nil && n >= 1 {
		q.threshold = n
	}
	return q
}
