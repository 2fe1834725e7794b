package routes

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	projectshttp "github.com/thip-platform/disclosure-backend/internal/projects/http"
	"github.com/thip-platform/disclosure-backend/internal/projects/repository"
	"github.com/thip-platform/disclosure-backend/internal/projects/service"
	"github.com/thip-platform/disclosure-backend/internal/refdata"
	"github.com/thip-platform/disclosure-backend/internal/search"
)

type V1Deps struct {
	MapperDB     *sql.DB
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	DashboardTTL time.Duration
}

// RegisterV1 wires the document store, reference data and search endpoints
// under /api/v1 and returns the search service so the caller can hand it to
// the cache-warm scheduler.
func RegisterV1(r *gin.Engine, dep V1Deps) *search.Service {
	api := r.Group("/api/v1")

	svc := service.NewProjectService(
		repository.NewIngestRepository(dep.MapperDB),
		repository.NewRenderRepository(dep.MapperDB),
		repository.NewDeleteRepository(dep.MapperDB),
	)
	projectshttp.Register(api, svc)

	refdata.Register(api, refdata.NewListRepository(dep.Pool))

	searchSvc := search.NewService(search.NewRepository(dep.MapperDB), dep.Redis, dep.DashboardTTL)
	search.Register(api, searchSvc)

	return searchSvc
}
