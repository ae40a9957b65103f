package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/handler"
	"github.com/joshibibhushan/HumanLoopML/internal/middleware"
	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
	"github.com/joshibibhushan/HumanLoopML/internal/service"
)

// Server is the HTTP serving layer: predictions, feedback collection,
// metrics retrieval and version queries.
type Server struct {
	router    *gin.Engine
	predictor *service.Predictor
	registry  *registry.Registry
	log       *zap.Logger
}

// NewServer wires the router, handlers and middleware.
func NewServer(db *sqlx.DB, reg *registry.Registry, predictor *service.Predictor, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(middleware.RequestLogging(log), gin.Recovery())

	s := &Server{
		router:    router,
		predictor: predictor,
		registry:  reg,
		log:       log,
	}

	feedbackRepo := repository.NewFeedbackRepository(db, log)
	metricsRepo := repository.NewMetricsRepository(db, log)

	predictHandler := handler.NewPredictHandler(predictor, log)
	feedbackHandler := handler.NewFeedbackHandler(feedbackRepo, reg, log)
	metricsHandler := handler.NewMetricsHandler(metricsRepo, reg, log)
	modelHandler := handler.NewModelHandler(reg, predictor, log)

	s.router.GET("/health", s.health)

	api := s.router.Group("/api")
	{
		api.POST("/predict", predictHandler.Predict)
		api.POST("/feedback", feedbackHandler.Submit)
		api.GET("/metrics", metricsHandler.Get)
		api.GET("/metrics/compare", metricsHandler.Compare)
		api.GET("/model/version", modelHandler.Version)
		api.POST("/model/reload", modelHandler.Reload)
	}

	return s
}

func (s *Server) health(c *gin.Context) {
	response := gin.H{
		"status":          "healthy",
		"model_loaded":    false,
		"current_version": nil,
	}
	if version, ok := s.predictor.LoadedVersion(); ok {
		response["model_loaded"] = true
		response["current_version"] = fmt.Sprintf("v%d", version)
	}
	c.JSON(http.StatusOK, response)
}

// Run starts the server and blocks until it fails or the process is
// stopped.
func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
