package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshibibhushan/HumanLoopML/internal/config"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
	"github.com/joshibibhushan/HumanLoopML/internal/training"
)

// NewTrainCmd creates the 'train' command for baseline training.
func NewTrainCmd() *cobra.Command {
	var (
		configPath  string
		maxFeatures int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the baseline model (version 1)",
		Long: `Fit a fresh vectorizer and classifier on the original corpus,
evaluate on the held-out test split and promote the result as version 1.

Fails if a baseline is already registered; retraining an existing
deployment is done with 'retrain'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(configPath, maxFeatures)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	cmd.Flags().IntVar(&maxFeatures, "max-features", 0, "vocabulary cap (0 = config default)")
	return cmd
}

func runTrain(configPath string, maxFeatures int) error {
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
	if maxFeatures == 0 {
		maxFeatures = cfg.Training.MaxFeatures
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

	log := logrus.New()
	log.Info("=== BASELINE MODEL TRAINING ===")

	result, err := training.TrainBaseline(
		corpusSource(cfg),
		reg,
		repository.NewMetricsRepository(db, logger),
		maxFeatures,
		log,
	)
	if err != nil {
		return err
	}

	log.Infof("Baseline training complete: model v%d promoted", result.Version)
	log.Infof("Test accuracy: %.4f", result.Metrics.Accuracy)
	log.Infof("Test F1 (macro): %.4f", result.Metrics.F1Macro)
	return nil
}
