package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks connectivity to the database
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthPingTimeout = 3 * time.Second

// HealthHandler reports server and database status
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger, now: time.Now}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":   "unavailable",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": h.now().Format(time.DateTime),
	})
}
