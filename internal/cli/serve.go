package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/config"
	"github.com/joshibibhushan/HumanLoopML/internal/server"
	"github.com/joshibibhushan/HumanLoopML/internal/service"
)

// NewServeCmd creates the 'serve' command running the prediction API.
func NewServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction and feedback API server",
		Long: `Start the HTTP API serving the current model version.

Endpoints:
  POST /api/predict         - classify a text
  POST /api/feedback        - submit a human correction
  GET  /api/metrics         - evaluation metrics per version
  GET  /api/metrics/compare - compare versions
  GET  /api/model/version   - current model version
  POST /api/model/reload    - reload the current version from disk
  GET  /health              - health check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	return cmd
}

func runServe(configPath string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	reg, err := openRegistry(cfg, logger)
	if err != nil {
		return err
	}

	predictor := service.NewPredictor(reg, logger)
	// Warm the model eagerly; a missing baseline is not fatal, the
	// predictor retries lazily on the first request.
	if version, err := predictor.Reload(); err != nil {
		logger.Warn("Could not load model on startup", zap.Error(err))
	} else {
		logger.Info("Model loaded on startup", zap.Int("version", version))
	}

	srv := server.NewServer(db, reg, predictor, logger)
	srv.Run(cfg.Server.Port)
	return nil
}
