package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/typicalfo/canvas/backend/internal/config"
	"github.com/typicalfo/canvas/backend/internal/logging"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type APIHandlers struct {
	store       HealthChecker
	configStore ConfigProvider
}

func NewAPIHandlers(store HealthChecker) *APIHandlers {
	return &APIHandlers{store: store}
}

// Register mounts the handlers on r.
func (h *APIHandlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/config", h.Config)
}

func (h *APIHandlers) Health(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			logging.GetLogger().WithError(err).Warn("Database health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Config returns the live configuration in the same shape as the config file.
func (h *APIHandlers) Config(c *gin.Context) {
	if h.configStore == nil {
		c.JSON(http.StatusOK, config.Default())
		return
	}
	c.JSON(http.StatusOK, h.configStore.Snapshot())
}
