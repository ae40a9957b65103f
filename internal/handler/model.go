package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/service"
)

// ModelHandler serves version queries and model reloads.
type ModelHandler struct {
	registry  *registry.Registry
	predictor *service.Predictor
	logger    *zap.Logger
}

// NewModelHandler creates a new model handler.
func NewModelHandler(reg *registry.Registry, predictor *service.Predictor, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{registry: reg, predictor: predictor, logger: logger}
}

// Version handles GET /api/model/version.
func (h *ModelHandler) Version(c *gin.Context) {
	version, err := h.registry.CurrentVersion()
	if err != nil {
		if errors.Is(err, registry.ErrVersionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No model found"})
			return
		}
		h.logger.Error("Failed to resolve current version", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve version"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version":        fmt.Sprintf("v%d", version),
		"version_number": version,
	})
}

// Reload handles POST /api/model/reload: swap the serving handle to the
// registry's current version without restarting the process.
func (h *ModelHandler) Reload(c *gin.Context) {
	version, err := h.predictor.Reload()
	if err != nil {
		if errors.Is(err, service.ErrNoModelAvailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No model available. Please train a baseline model first."})
			return
		}
		h.logger.Error("Failed to reload model", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload model"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Model reloaded",
		"version": fmt.Sprintf("v%d", version),
	})
}
