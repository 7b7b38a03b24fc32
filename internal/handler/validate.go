package handler

import (
	"net/mail"
	"strings"

	"github.com/rustamli/dashboard-api/internal/repository"
)

// productColors is the fixed palette a product's colors must be drawn from.
var productColors = map[string]bool{
	"Black":  true,
	"White":  true,
	"Yellow": true,
	"Green":  true,
	"Blue":   true,
	"Red":    true,
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validateLogin(email, password string) []string {
	var msgs []string
	if !validEmail(email) {
		msgs = append(msgs, "Valid email is required")
	}
	if len(password) < 6 {
		msgs = append(msgs, "Password must be at least 6 characters")
	}
	return msgs
}

func validateCategoryName(name string) []string {
	var msgs []string
	switch {
	case strings.TrimSpace(name) == "":
		msgs = append(msgs, "Category name is required")
	case len(strings.TrimSpace(name)) < 2:
		msgs = append(msgs, "Category name must be at least 2 characters")
	}
	return msgs
}

func validateProduct(in repository.ProductInput) []string {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, "Product name is required")
	}
	if in.Price < 0 {
		msgs = append(msgs, "Price must be a positive number")
	}
	if in.CategoryID < 1 {
		msgs = append(msgs, "Valid category ID is required")
	}
	if len(in.Colors) == 0 {
		msgs = append(msgs, "At least one color is required")
	}
	for _, c := range in.Colors {
		if !productColors[c] {
			msgs = append(msgs, "Invalid color selected")
			break
		}
	}
	return msgs
}
