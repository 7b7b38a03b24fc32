package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rustamli/dashboard-api/internal/pagination"
)

// Product represents a product row. Colors and Tags live in JSON columns and
// are decoded back into string slices on every read. CategoryName is joined
// in from the categories table for list and detail responses.
type Product struct {
	ID           uint64   `json:"id"`
	CategoryID   uint64   `json:"category_id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Colors       []string `json:"colors"`
	Tags         []string `json:"tags"`
	CategoryName string   `json:"category_name,omitempty"`
}

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	CategoryID uint64   `json:"category_id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Colors     []string `json:"colors"`
	Tags       []string `json:"tags"`
}

// ProductRepo encapsulates all database queries related to products.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productListQuery = `SELECT p.id, p.category_id, p.name, p.price, p.colors, p.tags, c.name
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id`

func scanProduct(scan func(dest ...any) error) (Product, error) {
	var (
		p            Product
		colors, tags []byte
		categoryName sql.NullString
	)
	if err := scan(&p.ID, &p.CategoryID, &p.Name, &p.Price, &colors, &tags, &categoryName); err != nil {
		return Product{}, err
	}
	if err := json.Unmarshal(colors, &p.Colors); err != nil {
		return Product{}, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return Product{}, err
	}
	p.CategoryName = categoryName.String
	return p, nil
}

// FindAll returns every product joined with its category name, ordered by
// product name.
func (r *ProductRepo) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, productListQuery+" ORDER BY p.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FindPage returns one window of products plus the total row count.
func (r *ProductRepo) FindPage(ctx context.Context, p pagination.Params) ([]Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, productListQuery+" ORDER BY p.name LIMIT ?, ?", p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		prod, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, prod)
	}
	return out, total, rows.Err()
}

// FindByID fetches a single product or ErrNotFound.
func (r *ProductRepo) FindByID(ctx context.Context, id uint64) (Product, error) {
	row := r.db.QueryRowContext(ctx, productListQuery+" WHERE p.id = ?", id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// Create inserts a product and returns it with the generated id. Colors and
// tags are serialized to the JSON columns; a nil tag slice is stored as [].
func (r *ProductRepo) Create(ctx context.Context, in ProductInput) (Product, error) {
	colors, tags, err := encodeSets(in)
	if err != nil {
		return Product{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (category_id, name, price, colors, tags) VALUES (?, ?, ?, ?, ?)",
		in.CategoryID, in.Name, in.Price, colors, tags)
	if err != nil {
		return Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Product{}, err
	}
	return r.FindByID(ctx, uint64(id))
}

// Update rewrites every writable field. ErrNotFound when no row matched.
func (r *ProductRepo) Update(ctx context.Context, id uint64, in ProductInput) error {
	colors, tags, err := encodeSets(in)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET category_id = ?, name = ?, price = ?, colors = ?, tags = ? WHERE id = ?",
		in.CategoryID, in.Name, in.Price, colors, tags, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product. ErrNotFound when no row matched.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeSets(in ProductInput) (colors, tags []byte, err error) {
	if colors, err = json.Marshal(in.Colors); err != nil {
		return nil, nil, err
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if tags, err = json.Marshal(in.Tags); err != nil {
		return nil, nil, err
	}
	return colors, tags, nil
}
