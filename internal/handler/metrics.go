package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
)

// MetricsHandler serves stored evaluation metrics.
type MetricsHandler struct {
	metricsRepo repository.MetricsRepository
	registry    *registry.Registry
	logger      *zap.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(metricsRepo repository.MetricsRepository, reg *registry.Registry, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{metricsRepo: metricsRepo, registry: reg, logger: logger}
}

// Get handles GET /api/metrics. Without a version query parameter it
// serves metrics for the current version.
func (h *MetricsHandler) Get(c *gin.Context) {
	var version int
	if raw := c.Query("version"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "version must be an integer"})
			return
		}
		version = parsed
	} else {
		current, err := h.registry.CurrentVersion()
		if err != nil {
			if errors.Is(err, registry.ErrVersionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No model found"})
				return
			}
			h.logger.Error("Failed to resolve current version", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve metrics"})
			return
		}
		version = current
	}

	metrics, err := h.metricsRepo.Get(version)
	if err != nil {
		if errors.Is(err, repository.ErrMetricsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Metrics for v%d not found", version)})
			return
		}
		h.logger.Error("Failed to load metrics", zap.Int("version", version), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version": fmt.Sprintf("v%d", version),
		"metrics": metrics,
	})
}

// Compare handles GET /api/metrics/compare?versions=1,2,3. Versions
// with no stored metrics are omitted from the result.
func (h *MetricsHandler) Compare(c *gin.Context) {
	raw := c.Query("versions")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "versions query parameter is required"})
		return
	}

	var versions []int
	for _, part := range strings.Split(raw, ",") {
		version, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad version %q", part)})
			return
		}
		versions = append(versions, version)
	}

	comparison, err := h.metricsRepo.Compare(versions)
	if err != nil {
		h.logger.Error("Failed to compare metrics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare metrics"})
		return
	}

	out := make(map[string]interface{}, len(comparison))
	for version, summary := range comparison {
		out[fmt.Sprintf("v%d", version)] = summary
	}
	c.JSON(http.StatusOK, gin.H{"comparison": out})
}
