package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rustamli/dashboard-api/internal/middleware"
	"github.com/rustamli/dashboard-api/internal/pagination"
	"github.com/rustamli/dashboard-api/internal/queue"
	"github.com/rustamli/dashboard-api/internal/repository"
)

// CategoryStore is the persistence contract the category endpoints consume.
type CategoryStore interface {
	FindAll(ctx context.Context) ([]repository.Category, error)
	FindPage(ctx context.Context, p pagination.Params) ([]repository.Category, int, error)
	NameExists(ctx context.Context, name string, excludeID uint64) (bool, error)
	Create(ctx context.Context, name string) (repository.Category, error)
	UpdateName(ctx context.Context, id uint64, name string) error
	Delete(ctx context.Context, id uint64) error
}

// PublishFunc sends a catalog event to the broker. Publish failures must
// never fail the request; handlers log and move on.
type PublishFunc func(ctx context.Context, event queue.CatalogChangedEvent) error

// CategoryHandler implements the /api/categories endpoints.
type CategoryHandler struct {
	Store   CategoryStore
	Publish PublishFunc
}

func NewCategoryHandler(store CategoryStore, publish PublishFunc) *CategoryHandler {
	return &CategoryHandler{Store: store, Publish: publish}
}

// List handles GET /api/categories. With no query it returns the bare
// array; page or limit selects the paginated envelope; auto=true lets the
// server pick based on the collection size.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q := parseListQuery(c)
	var (
		list pagination.List[repository.Category]
		err  error
	)
	switch {
	case q.auto:
		list, err = pagination.AutoFetch(q.threshold,
			func(page, limit int) (pagination.Page[repository.Category], error) {
				items, total, err := h.Store.FindPage(ctx, pagination.Params{Page: page, Limit: limit})
				return pagination.Page[repository.Category]{Items: items, TotalItems: total}, err
			},
			func() ([]repository.Category, error) { return h.Store.FindAll(ctx) })
	case q.windowed:
		var (
			items []repository.Category
			total int
		)
		if items, total, err = h.Store.FindPage(ctx, q.params); err == nil {
			list = pagination.Paginated(items, pagination.Paginate(total, q.params.Page, q.params.Limit))
		}
	default:
		var items []repository.Category
		if items, err = h.Store.FindAll(ctx); err == nil {
			list = pagination.Plain(items)
		}
	}
	if err != nil {
		c.Logger().Errorf("categories: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}
	return c.JSON(http.StatusOK, successResponse(list, "Categories fetched successfully"))
}

type categoryReq struct {
	Name string `json:"name"`
}

// Create handles POST /api/categories (admin only).
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
	}
	if msgs := validateCategoryName(req.Name); len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", strings.Join(msgs, ", ")))
	}
	name := strings.TrimSpace(req.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Store.NameExists(ctx, name, 0)
	if err != nil {
		c.Logger().Errorf("categories: name lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}
	if exists {
		return c.JSON(http.StatusBadRequest, errorResponse("Category with this name already exists"))
	}

	cat, err := h.Store.Create(ctx, name)
	if err != nil {
		c.Logger().Errorf("categories: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	h.publishEvent(c, queue.ActionCreated, cat.ID, cat.Name)
	return c.JSON(http.StatusCreated, successResponse(cat, "Category created successfully"))
}

// Update handles PUT /api/categories/:id (admin only).
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid category id"))
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
	}
	if msgs := validateCategoryName(req.Name); len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", strings.Join(msgs, ", ")))
	}
	name := strings.TrimSpace(req.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Store.NameExists(ctx, name, id)
	if err != nil {
		c.Logger().Errorf("categories: name lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}
	if exists {
		return c.JSON(http.StatusBadRequest, errorResponse("Category with this name already exists"))
	}

	if err := h.Store.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse("Category not found"))
		}
		c.Logger().Errorf("categories: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	h.publishEvent(c, queue.ActionUpdated, id, name)
	return c.JSON(http.StatusOK, successResponse(repository.Category{ID: id, Name: name}, "Category updated successfully"))
}

// Delete handles DELETE /api/categories/:id (admin only). Products of the
// category are removed by the FK cascade.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid category id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse("Category not found"))
		}
		c.Logger().Errorf("categories: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	h.publishEvent(c, queue.ActionDeleted, id, "")
	return c.JSON(http.StatusOK, successResponse(nil, "Category deleted successfully"))
}

func (h *CategoryHandler) publishEvent(c echo.Context, action string, id uint64, name string) {
	if h.Publish == nil {
		return
	}
	ev := queue.CatalogChangedEvent{
		Entity:     queue.EntityCategory,
		Action:     action,
		EntityID:   id,
		EntityName: name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if claims, ok := middleware.Identity(c); ok {
		ev.ActorID = claims.ID
		ev.ActorEmail = claims.Email
	}
	_ = h.Publish(c.Request().Context(), ev)
}
