package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rustamli/dashboard-api/internal/auth"
	"github.com/rustamli/dashboard-api/internal/config"
	"github.com/rustamli/dashboard-api/internal/database"
	"github.com/rustamli/dashboard-api/internal/handler"
	"github.com/rustamli/dashboard-api/internal/queue"
	"github.com/rustamli/dashboard-api/internal/repository"
	"github.com/rustamli/dashboard-api/internal/router"
	queue_publisher "github.com/rustamli/dashboard-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	if cfg.InitDB {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("schema init: %v", err)
		}
		if err := database.Seed(ctx, db, cfg.BcryptCost); err != nil {
			log.Fatalf("seed: %v", err)
		}
		cancel()
	}

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(codec, repository.NewUserRepo(db)),
		Categories: handler.NewCategoryHandler(repository.NewCategoryRepo(db), queue_publisher.PublishCatalogChanged),
		Products:   handler.NewProductHandler(repository.NewProductRepo(db), queue_publisher.PublishCatalogChanged),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, codec, rdb)

	// Audit consumer runs for the life of the process and reconnects on its
	// own; it never takes the API down.
	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
