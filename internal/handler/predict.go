package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/service"
)

// PredictHandler answers classification requests from the current model
// version.
type PredictHandler struct {
	predictor *service.Predictor
	logger    *zap.Logger
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(predictor *service.Predictor, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{predictor: predictor, logger: logger}
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Text string `json:"text"`
}

// PredictResponse mirrors the original serving API shape.
type PredictResponse struct {
	Prediction   string  `json:"prediction"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
}

// Predict handles POST /api/predict.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := h.predictor.Predict(req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text cannot be empty"})
		case errors.Is(err, service.ErrNoModelAvailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No model available. Please train a baseline model first."})
		default:
			h.logger.Error("Prediction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		}
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Prediction:   prediction.Label,
		Confidence:   prediction.Confidence,
		ModelVersion: fmt.Sprintf("v%d", prediction.Version),
	})
}
