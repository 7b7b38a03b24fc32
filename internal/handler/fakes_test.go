package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rustamli/dashboard-api/internal/pagination"
	"github.com/rustamli/dashboard-api/internal/queue"
	"github.com/rustamli/dashboard-api/internal/repository"
)

// fakeUserStore serves credential records from memory.
type fakeUserStore struct {
	users map[string]repository.User
	err   error
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	if f.err != nil {
		return repository.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

// fakeCategoryStore keeps categories sorted by name, mirroring the SQL
// ORDER BY the real repository uses.
type fakeCategoryStore struct {
	categories []repository.Category
	nextID     uint64
	err        error
}

func (f *fakeCategoryStore) sorted() []repository.Category {
	out := append([]repository.Category(nil), f.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeCategoryStore) FindAll(context.Context) ([]repository.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(), nil
}

func (f *fakeCategoryStore) FindPage(_ context.Context, p pagination.Params) ([]repository.Category, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.sorted()
	start, end := p.Offset(), p.Offset()+p.Limit
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeCategoryStore) NameExists(_ context.Context, name string, excludeID uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, name string) (repository.Category, error) {
	if f.err != nil {
		return repository.Category{}, f.err
	}
	f.nextID++
	c := repository.Category{ID: f.nextID, Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCategoryStore) UpdateName(_ context.Context, id uint64, name string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Name = name
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCategoryStore) Delete(_ context.Context, id uint64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeProductStore mirrors the product repository in memory.
type fakeProductStore struct {
	products []repository.Product
	nextID   uint64
	err      error
}

func (f *fakeProductStore) sorted() []repository.Product {
	out := append([]repository.Product(nil), f.products...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeProductStore) FindAll(context.Context) ([]repository.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(), nil
}

func (f *fakeProductStore) FindPage(_ context.Context, p pagination.Params) ([]repository.Product, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.sorted()
	start, end := p.Offset(), p.Offset()+p.Limit
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeProductStore) FindByID(_ context.Context, id uint64) (repository.Product, error) {
	if f.err != nil {
		return repository.Product{}, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return repository.Product{}, repository.ErrNotFound
}

func (f *fakeProductStore) Create(_ context.Context, in repository.ProductInput) (repository.Product, error) {
	if f.err != nil {
		return repository.Product{}, f.err
	}
	f.nextID++
	p := repository.Product{
		ID:         f.nextID,
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Price:      in.Price,
		Colors:     in.Colors,
		Tags:       in.Tags,
	}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeProductStore) Update(_ context.Context, id uint64, in repository.ProductInput) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i] = repository.Product{
				ID:         id,
				CategoryID: in.CategoryID,
				Name:       in.Name,
				Price:      in.Price,
				Colors:     in.Colors,
				Tags:       in.Tags,
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProductStore) Delete(_ context.Context, id uint64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// eventRecorder captures published catalog events.
type eventRecorder struct {
	events []queue.CatalogChangedEvent
}

func (r *eventRecorder) publish(_ context.Context, ev queue.CatalogChangedEvent) error {
	r.events = append(r.events, ev)
	return nil
}

// invoke runs a handler directly with the given request and returns the
// recorder. Path params, if any, are set from the parallel slices.
func invoke(t *testing.T, h echo.HandlerFunc, req *http.Request, paramNames, paramValues []string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	require.NoError(t, h(c))
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// decodeBody unmarshals the response envelope.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
