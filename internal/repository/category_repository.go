package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rustamli/dashboard-api/internal/pagination"
)

// Category represents a category row together with its derived product
// count. ProductCount is computed by a LEFT JOIN at read time and is never
// stored.
type Category struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryListQuery = `SELECT c.id, c.name, COUNT(p.id) AS product_count
	FROM categories c
	LEFT JOIN products p ON c.id = p.category_id
	GROUP BY c.id, c.name
	ORDER BY c.name`

// FindAll returns every category with its product count, ordered by name.
func (r *CategoryRepo) FindAll(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, categoryListQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ProductCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindPage returns one window of categories plus the total row count. The
// count and the page come from the same request-scoped connection pool; the
// page may be empty when the requested window lies past the end.
func (r *CategoryRepo) FindPage(ctx context.Context, p pagination.Params) ([]Category, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, categoryListQuery+" LIMIT ?, ?", p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ProductCount); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// FindByID fetches a single category or ErrNotFound.
func (r *CategoryRepo) FindByID(ctx context.Context, id uint64) (Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `SELECT c.id, c.name, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON c.id = p.category_id
		WHERE c.id = ?
		GROUP BY c.id, c.name`, id).Scan(&c.ID, &c.Name, &c.ProductCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

// NameExists reports whether another category already uses the given name,
// compared case-insensitively. excludeID skips the row being updated; pass 0
// on create.
func (r *CategoryRepo) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	q := "SELECT id FROM categories WHERE LOWER(name) = LOWER(?)"
	args := []any{strings.TrimSpace(name)}
	if excludeID != 0 {
		q += " AND id != ?"
		args = append(args, excludeID)
	}
	var id uint64
	err := r.db.QueryRowContext(ctx, q+" LIMIT 1", args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a category and returns it with the generated id.
func (r *CategoryRepo) Create(ctx context.Context, name string) (Category, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return Category{ID: uint64(id), Name: name}, nil
}

// UpdateName renames a category. ErrNotFound when no row was affected.
func (r *CategoryRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category; its products go with it via the FK cascade.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
