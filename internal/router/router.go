// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rustamli/dashboard-api/internal/auth"
	"github.com/rustamli/dashboard-api/internal/config"
	"github.com/rustamli/dashboard-api/internal/handler"
	"github.com/rustamli/dashboard-api/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
}

// Register sets up the full route table. Login and health are the only
// routes reachable without a token; every mutation additionally demands the
// admin role. List and detail GETs sit behind the Redis response cache, and
// login behind the rate limiter (both degrade to no-ops when rdb is nil).
func Register(e *echo.Echo, h Handlers, codec *auth.Codec, rdb *redis.Client) {
	e.GET("/api/health", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := e.Group("/api/users")
	users.POST("/login", h.Auth.Login, limiter)
	users.POST("/refresh", h.Auth.Refresh)
	users.GET("/me", h.Auth.Me, middleware.Authenticate(codec))

	authed := middleware.Authenticate(codec)
	admin := middleware.RequireRole(auth.RoleAdmin)

	categories := e.Group("/api/categories", authed)
	categories.GET("", h.Categories.List, cache)
	categories.POST("", h.Categories.Create, admin)
	categories.PUT("/:id", h.Categories.Update, admin)
	categories.DELETE("/:id", h.Categories.Delete, admin)

	products := e.Group("/api/products", authed)
	products.GET("", h.Products.List, cache)
	products.GET("/:id", h.Products.Get, cache)
	products.POST("", h.Products.Create, admin)
	products.PUT("/:id", h.Products.Update, admin)
	products.DELETE("/:id", h.Products.Delete, admin)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Route not found"})
	})
}
