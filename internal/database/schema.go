package database

import (
	"context"
	"database/sql"

	"github.com/rustamli/dashboard-api/internal/auth"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role ENUM('admin', 'user') DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		category_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		colors JSON NOT NULL,
		tags JSON NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	)`,
}

// EnsureSchema creates the three application tables when they do not exist.
// The products FK cascades on category delete, which is what makes category
// deletion take its products with it.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts the default users, categories and sample products, but only
// into empty tables so that restarts never duplicate rows. Both seeded
// accounts use the password "123456".
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var users int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return err
	}
	if users == 0 {
		hash, err := auth.HashPassword("123456", bcryptCost)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO users (email, password, role) VALUES ('admin@gmail.com', ?, 'admin'), ('user@gmail.com', ?, 'user')",
			hash, hash); err != nil {
			return err
		}
	}

	var categories int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&categories); err != nil {
		return err
	}
	if categories == 0 {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO categories (name) VALUES ('Electronics'), ('Clothing'), ('Books'), ('Home & Garden'), ('Sports')"); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO products (category_id, name, price, colors, tags) VALUES
			(1, 'Smartphone', 25000.00, '["Black","White"]', '["mobile","android","smartphone"]'),
			(1, 'Laptop', 55000.00, '["Black","Blue"]', '["computer","laptop","work"]'),
			(2, 'T-Shirt', 899.00, '["Red","Green","Yellow"]', '["casual","cotton","summer"]'),
			(3, 'Programming Book', 1299.00, '["Black"]', '["education","programming","tech"]')`); err != nil {
			return err
		}
	}
	return nil
}
