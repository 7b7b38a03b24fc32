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

// ProductStore is the persistence contract the product endpoints consume.
type ProductStore interface {
	FindAll(ctx context.Context) ([]repository.Product, error)
	FindPage(ctx context.Context, p pagination.Params) ([]repository.Product, int, error)
	FindByID(ctx context.Context, id uint64) (repository.Product, error)
	Create(ctx context.Context, in repository.ProductInput) (repository.Product, error)
	Update(ctx context.Context, id uint64, in repository.ProductInput) error
	Delete(ctx context.Context, id uint64) error
}

// ProductHandler implements the /api/products endpoints.
type ProductHandler struct {
	Store   ProductStore
	Publish PublishFunc
}

func NewProductHandler(store ProductStore, publish PublishFunc) *ProductHandler {
	return &ProductHandler{Store: store, Publish: publish}
}

// List handles GET /api/products with the same plain/windowed/auto shapes
// as the category listing.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q := parseListQuery(c)
	var (
		list pagination.List[repository.Product]
		err  error
	)
	switch {
	case q.auto:
		list, err = pagination.AutoFetch(q.threshold,
			func(page, limit int) (pagination.Page[repository.Product], error) {
				items, total, err := h.Store.FindPage(ctx, pagination.Params{Page: page, Limit: limit})
				return pagination.Page[repository.Product]{Items: items, TotalItems: total}, err
			},
			func() ([]repository.Product, error) { return h.Store.FindAll(ctx) })
	case q.windowed:
		var (
			items []repository.Product
			total int
		)
		if items, total, err = h.Store.FindPage(ctx, q.params); err == nil {
			list = pagination.Paginated(items, pagination.Paginate(total, q.params.Page, q.params.Limit))
		}
	default:
		var items []repository.Product
		if items, err = h.Store.FindAll(ctx); err == nil {
			list = pagination.Plain(items)
		}
	}
	if err != nil {
		c.Logger().Errorf("products: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}
	return c.JSON(http.StatusOK, successResponse(list, "Products fetched successfully"))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid product id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse("Product not found"))
		}
		c.Logger().Errorf("products: fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}
	return c.JSON(http.StatusOK, successResponse(p, "Product fetched successfully"))
}

// Create handles POST /api/products (admin only).
func (h *ProductHandler) Create(c echo.Context) error {
	var in repository.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
	}
	if msgs := validateProduct(in); len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", strings.Join(msgs, ", ")))
	}
	in.Name = strings.TrimSpace(in.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.Create(ctx, in)
	if err != nil {
		// 1452: FK violation, the referenced category does not exist.
		if strings.Contains(err.Error(), "1452") {
			return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", "Valid category ID is required"))
		}
		c.Logger().Errorf("products: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	h.publishEvent(c, queue.ActionCreated, p.ID, p.Name)
	return c.JSON(http.StatusCreated, successResponse(p, "Product created successfully"))
}

// Update handles PUT /api/products/:id (admin only).
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid product id"))
	}
	var in repository.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
	}
	if msgs := validateProduct(in); len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", strings.Join(msgs, ", ")))
	}
	in.Name = strings.TrimSpace(in.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Update(ctx, id, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse("Product not found"))
		}
		if strings.Contains(err.Error(), "1452") {
			return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", "Valid category ID is required"))
		}
		c.Logger().Errorf("products: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	h.publishEvent(c, queue.ActionUpdated, id, in.Name)
	updated := repository.Product{
		ID:         id,
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Price:      in.Price,
		Colors:     in.Colors,
		Tags:       in.Tags,
	}
	return c.JSON(http.StatusOK, successResponse(updated, "Product updated successfully"))
}

// Delete handles DELETE /api/products/:id (admin only).
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid product id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse("Product not found"))
		}
		c.Logger().Errorf("products: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	h.publishEvent(c, queue.ActionDeleted, id, "")
	return c.JSON(http.StatusOK, successResponse(nil, "Product deleted successfully"))
}

func (h *ProductHandler) publishEvent(c echo.Context, action string, id uint64, name string) {
	if h.Publish == nil {
		return
	}
	ev := queue.CatalogChangedEvent{
		Entity:     queue.EntityProduct,
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
