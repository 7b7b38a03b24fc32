// Package repository contains data access logic separated from HTTP
// handlers. Sentinel errors defined here let handlers translate persistence
// failures into the right HTTP status without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a row addressed by id does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrNameExists is returned when an insert or update would duplicate a
// category name (compared case-insensitively). Handlers translate it into an
// HTTP 400 response with a conflict message.
var ErrNameExists = errors.New("name already exists")
