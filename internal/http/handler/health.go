package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/quizbank/pkg"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// Health reports that the API is running.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"message":   "Quizbank API is running",
		"timestamp": now().UTC().Format(pkg.TimeFormat),
		"version":   pkg.Version,
	})
}

// Ping answers with a bare "pong" string.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, "pong")
}

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides liveness and readiness probes checking downstream deps.
type HealthHandler struct {
	pg          Pinger
	pingTimeout time.Duration
}

// NewHealthHandler constructs a HealthHandler. A nil pinger is skipped by Readiness.
func NewHealthHandler(pg Pinger) *HealthHandler {
	return &HealthHandler{pg: pg, pingTimeout: 1 * time.Second}
}

// Liveness reports that the process is up. Do not check external deps here.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"status": "alive"}, "ok"))
}

type check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Readiness checks the database to decide if we can serve traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	results := make([]check, 0, 1)
	ready := true
	if h.pg != nil {
		if err := h.pg.Ping(ctx); err != nil {
			ready = false
			results = append(results, check{Name: "postgres", Status: "down", Error: err.Error()})
		} else {
			results = append(results, check{Name: "postgres", Status: "up"})
		}
	}

	if ready {
		c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ready": true, "checks": results}, "ready"))
		return
	}
	logger.Warn(c.Request.Context(), "readiness failed: %+v", results)
	c.JSON(http.StatusServiceUnavailable, pkg.NewResponse(http.StatusServiceUnavailable, gin.H{"ready": false, "checks": results}, "not ready"))
}
