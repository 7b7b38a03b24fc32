package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustamli/dashboard-api/internal/queue"
	"github.com/rustamli/dashboard-api/internal/repository"
)

func seedCategories(n int) *fakeCategoryStore {
	f := &fakeCategoryStore{}
	for i := 1; i <= n; i++ {
		f.nextID++
		f.categories = append(f.categories, repository.Category{
			ID:   f.nextID,
			Name: fmt.Sprintf("Category %02d", i),
		})
	}
	return f
}

func TestCategoryListPlain(t *testing.T) {
	h := NewCategoryHandler(seedCategories(3), nil)

	rec := invoke(t, h.List, httptest.NewRequest(http.MethodGet, "/api/categories", nil), nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Categories fetched successfully", body["message"])
	// No pagination query -> bare array.
	items, ok := body["data"].([]any)
	require.True(t, ok, "expected bare array, got %T", body["data"])
	require.Len(t, items, 3)
}

func TestCategoryListPaginated(t *testing.T) {
	h := NewCategoryHandler(seedCategories(25), nil)

	rec := invoke(t, h.List, httptest.NewRequest(http.MethodGet, "/api/categories?page=2&limit=10", nil), nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	items := data["data"].([]any)
	require.Len(t, items, 10)
	p := data["pagination"].(map[string]any)
	require.EqualValues(t, 2, p["currentPage"])
	require.EqualValues(t, 3, p["totalPages"])
	require.EqualValues(t, 25, p["totalItems"])
	require.EqualValues(t, 10, p["itemsPerPage"])
	require.Equal(t, true, p["hasNextPage"])
	require.Equal(t, true, p["hasPrevPage"])
}

func TestCategoryListLimitOnlyDefaultsPage(t *testing.T) {
	h := NewCategoryHandler(seedCategories(5), nil)

	rec := invoke(t, h.List, httptest.NewRequest(http.MethodGet, "/api/categories?limit=2", nil), nil, nil)

	data := decodeBody(t, rec)["data"].(map[string]any)
	p := data["pagination"].(map[string]any)
	require.EqualValues(t, 1, p["currentPage"])
	require.EqualValues(t, 3, p["totalPages"])
	require.Equal(t, false, p["hasPrevPage"])
}

func TestCategoryListOutOfRangePage(t *testing.T) {
	h := NewCategoryHandler(seedCategories(5), nil)

	rec := invoke(t, h.List, httptest.NewRequest(http.MethodGet, "/api/categories?page=9&limit=10", nil), nil, nil)

	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Empty(t, data["data"])
	p := data["pagination"].(map[string]any)
	require.EqualValues(t, 9, p["currentPage"])
	require.EqualValues(t, 1, p["totalPages"])
	require.Equal(t, false, p["hasNextPage"])
}

func TestCategoryListAuto(t *testing.T) {
	small := NewCategoryHandler(seedCategories(5), nil)
	rec := invoke(t, small.List, httptest.NewRequest(http.MethodGet, "/api/categories?auto=true", nil), nil, nil)
	items, ok := decodeBody(t, rec)["data"].([]any)
	require.True(t, ok, "small collection should come back whole")
	require.Len(t, items, 5)

	large := NewCategoryHandler(seedCategories(15), nil)
	rec = invoke(t, large.List, httptest.NewRequest(http.MethodGet, "/api/categories?auto=true", nil), nil, nil)
	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	require.True(t, ok, "large collection should be paginated")
	require.Len(t, data["data"].([]any), 10)
	p := data["pagination"].(map[string]any)
	require.EqualValues(t, 15, p["totalItems"])
	require.Equal(t, true, p["hasNextPage"])
}

func TestCategoryCreate(t *testing.T) {
	store := seedCategories(1)
	events := &eventRecorder{}
	h := NewCategoryHandler(store, events.publish)

	rec := invoke(t, h.Create, jsonRequest(http.MethodPost, "/api/categories", `{"name":"Books"}`), nil, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Category created successfully", body["message"])
	created := body["data"].(map[string]any)
	require.Equal(t, "Books", created["name"])

	require.Len(t, events.events, 1)
	require.Equal(t, queue.EntityCategory, events.events[0].Entity)
	require.Equal(t, queue.ActionCreated, events.events[0].Action)
}

func TestCategoryCreateDuplicateName(t *testing.T) {
	store := &fakeCategoryStore{categories: []repository.Category{{ID: 1, Name: "Books"}}, nextID: 1}
	h := NewCategoryHandler(store, nil)

	// Case-insensitive match counts as a duplicate.
	rec := invoke(t, h.Create, jsonRequest(http.MethodPost, "/api/categories", `{"name":"books"}`), nil, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Category with this name already exists")
}

func TestCategoryCreateValidation(t *testing.T) {
	h := NewCategoryHandler(&fakeCategoryStore{}, nil)

	for body, want := range map[string]string{
		`{"name":""}`:  "Category name is required",
		`{"name":"x"}`: "Category name must be at least 2 characters",
	} {
		rec := invoke(t, h.Create, jsonRequest(http.MethodPost, "/api/categories", body), nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), want)
	}
}

func TestCategoryUpdate(t *testing.T) {
	store := &fakeCategoryStore{categories: []repository.Category{{ID: 1, Name: "Books"}}, nextID: 1}
	events := &eventRecorder{}
	h := NewCategoryHandler(store, events.publish)

	rec := invoke(t, h.Update, jsonRequest(http.MethodPut, "/api/categories/1", `{"name":"Novels"}`),
		[]string{"id"}, []string{"1"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Novels", store.categories[0].Name)
	require.Len(t, events.events, 1)
	require.Equal(t, queue.ActionUpdated, events.events[0].Action)
}

func TestCategoryUpdateKeepingOwnName(t *testing.T) {
	store := &fakeCategoryStore{categories: []repository.Category{{ID: 1, Name: "Books"}}, nextID: 1}
	h := NewCategoryHandler(store, nil)

	// Renaming a category to its current name is not a conflict.
	rec := invoke(t, h.Update, jsonRequest(http.MethodPut, "/api/categories/1", `{"name":"Books"}`),
		[]string{"id"}, []string{"1"})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoryUpdateNotFound(t *testing.T) {
	h := NewCategoryHandler(&fakeCategoryStore{}, nil)

	rec := invoke(t, h.Update, jsonRequest(http.MethodPut, "/api/categories/99", `{"name":"Novels"}`),
		[]string{"id"}, []string{"99"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Category not found")
}

func TestCategoryDelete(t *testing.T) {
	store := &fakeCategoryStore{categories: []repository.Category{{ID: 1, Name: "Books"}}, nextID: 1}
	events := &eventRecorder{}
	h := NewCategoryHandler(store, events.publish)

	rec := invoke(t, h.Delete, httptest.NewRequest(http.MethodDelete, "/api/categories/1", nil),
		[]string{"id"}, []string{"1"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, store.categories)
	require.Len(t, events.events, 1)
	require.Equal(t, queue.ActionDeleted, events.events[0].Action)

	rec = invoke(t, h.Delete, httptest.NewRequest(http.MethodDelete, "/api/categories/1", nil),
		[]string{"id"}, []string{"1"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
