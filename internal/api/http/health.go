package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler reports process liveness and the portal database's
// reachability. A nil pool reports the db check as disabled.
type HealthHandler struct {
	service string
	version string
	db      *pgxpool.Pool
}

func NewHealthHandler(service, version string, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{service: service, version: version, db: db}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ok := true
	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			ok = false
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ok":      ok,
		"service": h.service,
		"version": h.version,
		"db":      dbStatus,
		"time":    time.Now().UTC(),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
