// Package pagination implements the page-window math and the auto-pagination
// policy shared by every list endpoint. A list response is either a bare
// array or a {data, pagination} envelope; the List type makes that duality an
// explicit tagged variant instead of a shape the caller has to sniff.
package pagination

import "encoding/json"

// DefaultThreshold is the auto-pagination cutoff: collections at or below
// this size are returned whole, larger ones one page at a time.
const DefaultThreshold = 10

// Params is a requested page window. Page and Limit are both 1-based and
// never clamped here; normalization of absent query values happens at the
// HTTP boundary.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset returns the row offset for a LIMIT/OFFSET query.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Info describes the window a page of results was cut from. It is recomputed
// on every fetch and never persisted.
type Info struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// Paginate computes the window for a request. totalPages is the ceiling of
// totalItems/limit, so an empty collection yields totalPages=0 (and both
// flags false). An out-of-range page is accepted as-is: the caller gets an
// empty page with truthful totals rather than a silent clamp.
func Paginate(totalItems, page, limit int) Info {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return Info{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

// List is the tagged Plain | Paginated variant returned by list operations.
// Paginated marks whether the pagination block is part of the wire shape.
type List[T any] struct {
	Items     []T
	Info      Info
	Paginated bool
}

// Plain wraps a full result set. It marshals as the bare array and carries a
// synthesized single-page Info (totalPages=1, or 0 when empty) for callers
// that want window data regardless of shape.
func Plain[T any](items []T) List[T] {
	n := len(items)
	totalPages := 0
	if n > 0 {
		totalPages = 1
	}
	return List[T]{
		Items: items,
		Info: Info{
			CurrentPage:  1,
			TotalPages:   totalPages,
			TotalItems:   n,
			ItemsPerPage: n,
		},
	}
}

// Paginated wraps one page of results with its window.
func Paginated[T any](items []T, info Info) List[T] {
	return List[T]{Items: items, Info: info, Paginated: true}
}

type pageEnvelope[T any] struct {
	Data       []T  `json:"data"`
	Pagination Info `json:"pagination"`
}

// MarshalJSON emits the bare array for plain lists and the {data, pagination}
// envelope for paginated ones. A nil item slice still marshals as [].
func (l List[T]) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	if !l.Paginated {
		return json.Marshal(items)
	}
	return json.Marshal(pageEnvelope[T]{Data: items, Pagination: l.Info})
}

// Page is one fetched page together with the collection's total size.
type Page[T any] struct {
	Items      []T
	TotalItems int
}

// AutoFetch decides between a paginated and a full listing without requiring
// the caller to know the collection size in advance. It fetches page 1 with
// limit=threshold; if the reported total exceeds the threshold that page is
// returned as a paginated List, otherwise the probe is discarded and fetchAll
// supplies the whole collection as a plain List. A threshold < 1 falls back
// to DefaultThreshold.
func AutoFetch[T any](threshold int, fetchPage func(page, limit int) (Page[T], error), fetchAll func() ([]T, error)) (List[T], error) {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	probe, err := fetchPage(1, threshold)
	if err != nil {
		return List[T]{}, err
	}
	if probe.TotalItems > threshold {
		return Paginated(probe.Items, Paginate(probe.TotalItems, 1, threshold)), nil
	}
	all, err := fetchAll()
	if err != nil {
		return List[T]{}, err
	}
	return Plain(all), nil
}
