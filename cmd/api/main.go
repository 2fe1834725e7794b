package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/thip-platform/disclosure-backend/config"
	apihttp "github.com/thip-platform/disclosure-backend/internal/api/http"
	"github.com/thip-platform/disclosure-backend/internal/api/http/middleware"
	"github.com/thip-platform/disclosure-backend/internal/api/http/routes"
	"github.com/thip-platform/disclosure-backend/internal/db"
	cronjob "github.com/thip-platform/disclosure-backend/internal/search/cron"
	"github.com/thip-platform/disclosure-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := db.Open(ctx, db.Options{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	mapperDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("mapper db: %v", err)
	}
	defer mapperDB.Close()

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, dashboard cache disabled: %v", err)
			cache = nil
		}
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RateLimitMiddleware(20, 40))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	apihttp.NewHealthHandler("disclosure-backend", cfg.App.Version, pool.Pool).RegisterRoutes(r)

	searchSvc := routes.RegisterV1(r, routes.V1Deps{
		MapperDB:     mapperDB,
		Pool:         pool.Pool,
		Redis:        cache,
		DashboardTTL: time.Hour,
	})

	if cache != nil {
		cronjob.NewScheduler(searchSvc).Start()
	}

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
