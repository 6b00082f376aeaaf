package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pincite/pincite"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	pincite pincite.Pincite
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(p pincite.Pincite) *HealthHandler {
	return &HealthHandler{pincite: p}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "pincite",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "pincite",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready - verifies the document store answers.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	allHealthy := true

	if h.pincite != nil {
		start := time.Now()
		_, err := h.pincite.Stats(ctx)
		duration := time.Since(start)

		if err != nil {
			checks["store"] = gin.H{
				"status":   "unhealthy",
				"error":    err.Error(),
				"duration": duration.String(),
			}
			allHealthy = false
		} else {
			checks["store"] = gin.H{
				"status":   "healthy",
				"duration": duration.String(),
			}
		}
	} else {
		checks["store"] = gin.H{
			"status": "unhealthy",
			"error":  "pincite client not initialized",
		}
		allHealthy = false
	}

	response := gin.H{
		"status":    "ready",
		"service":   "pincite",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}

	if !allHealthy {
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// DetailedHealthCheck handles GET /health/detailed
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	start := time.Now()
	checks := gin.H{}
	allHealthy := true

	if h.pincite != nil {
		storeStart := time.Now()
		stats, err := h.pincite.Stats(ctx)
		storeDuration := time.Since(storeStart)

		storeStatus := gin.H{
			"status":      "healthy",
			"duration_ms": storeDuration.Milliseconds(),
		}
		if err != nil {
			storeStatus["status"] = "unhealthy"
			storeStatus["error"] = err.Error()
			allHealthy = false
		} else {
			storeStatus["documents"] = stats.Documents
			storeStatus["total_searches"] = stats.TotalSearches
		}
		checks["store"] = storeStatus
	} else {
		checks["pincite_client"] = gin.H{
			"status": "unhealthy",
			"error":  "client not initialized",
		}
		allHealthy = false
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["system"] = gin.H{
		"status":       "healthy",
		"goroutines":   runtime.NumGoroutine(),
		"heap_objects": m.HeapObjects,
		"gc_cycles":    m.NumGC,
	}

	response := gin.H{
		"status":  "healthy",
		"service": "pincite",
		"version": Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
		},
		"environment": gin.H{
			"go_version": GoVersion,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
		"metrics": gin.H{
			"response_time_ms": time.Since(start).Milliseconds(),
		},
	}

	if !allHealthy {
		response["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
