package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db      Pinger
	metrics http.Handler
}

// NewHandler builds the health endpoints. db may be nil when the service
// runs without an external database; metrics may be nil to disable scraping.
func NewHandler(db Pinger, metrics http.Handler) *Handler {
	return &Handler{db: db, metrics: metrics}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
		if h.metrics != nil {
			health.GET("/metrics", h.Metrics)
		}
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "DOWN",
				"reason": "database connection failed",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
