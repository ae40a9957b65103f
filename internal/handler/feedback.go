package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/models"
	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
)

// FeedbackHandler accepts human corrections for model predictions.
type FeedbackHandler struct {
	feedbackRepo repository.FeedbackRepository
	registry     *registry.Registry
	logger       *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackRepo repository.FeedbackRepository, reg *registry.Registry, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackRepo: feedbackRepo, registry: reg, logger: logger}
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Text            string `json:"text"`
	ModelPrediction string `json:"model_prediction"`
	HumanLabel      string `json:"human_label"`
}

// FeedbackResponse confirms a stored correction.
type FeedbackResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Submit handles POST /api/feedback.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The version the feedback was recorded against. Defaults to 1 when
	// nothing is registered yet, so early feedback is still collected.
	version, err := h.registry.CurrentVersion()
	if err != nil {
		if !errors.Is(err, registry.ErrVersionNotFound) {
			h.logger.Error("Failed to resolve current version", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store feedback"})
			return
		}
		version = 1
	}

	record := &models.FeedbackRecord{
		Text:            req.Text,
		ModelPrediction: req.ModelPrediction,
		HumanLabel:      req.HumanLabel,
		ModelVersion:    version,
	}
	if err := h.feedbackRepo.Append(record); err != nil {
		if errors.Is(err, repository.ErrInvalidFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to store feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store feedback"})
		return
	}

	c.JSON(http.StatusCreated, FeedbackResponse{
		Message:   "Feedback received successfully",
		Timestamp: record.CreatedAt.Format(time.RFC3339),
	})
}
