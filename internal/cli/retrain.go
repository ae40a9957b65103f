package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/config"
	"github.com/joshibibhushan/HumanLoopML/internal/models"
	"github.com/joshibibhushan/HumanLoopML/internal/notify"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
	"github.com/joshibibhushan/HumanLoopML/internal/training"
)

// NewRetrainCmd creates the 'retrain' command running the
// feedback-driven retraining pipeline.
func NewRetrainCmd() *cobra.Command {
	var (
		configPath      string
		feedbackWeight  int
		refitVectorizer bool
	)

	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Retrain the model with accumulated human feedback",
		Long: `Blend the original corpus with collected feedback, train a new
model version on the combined set and promote it after evaluation.

Each feedback sample is repeated --feedback-weight times, giving human
corrections proportionally higher influence. The baseline vectorizer
vocabulary is reused so the feature space stays stable across versions
unless --refit-vectorizer is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetrain(configPath, feedbackWeight, refitVectorizer, cmd.Flags().Changed("feedback-weight"))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	cmd.Flags().IntVar(&feedbackWeight, "feedback-weight", 1, "repetition count for each feedback sample (0 disables feedback)")
	cmd.Flags().BoolVar(&refitVectorizer, "refit-vectorizer", false, "fit a fresh vocabulary instead of reusing the baseline one")
	return cmd
}

func runRetrain(configPath string, feedbackWeight int, refitVectorizer, weightFlagSet bool) error {
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
	if !weightFlagSet {
		feedbackWeight = cfg.Training.FeedbackWeight
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
	log.Info("=== RETRAINING WITH HUMAN FEEDBACK ===")

	metricsRepo := repository.NewMetricsRepository(db, logger)
	pipeline := &training.Pipeline{
		Registry: reg,
		Feedback: repository.NewFeedbackRepository(db, logger),
		Metrics:  metricsRepo,
		Corpus:   corpusSource(cfg),
		Log:      log,
	}

	result, err := pipeline.Run(training.Options{
		FeedbackWeight:  feedbackWeight,
		RefitVectorizer: refitVectorizer,
		MaxFeatures:     cfg.Training.MaxFeatures,
	})
	if err != nil {
		if errors.Is(err, training.ErrNoBaselineModel) {
			return fmt.Errorf("no baseline model found, run 'train' first")
		}
		return err
	}

	log.Infof("Retraining complete: model v%d promoted", result.Version)
	log.Infof("Test accuracy: %.4f", result.Metrics.Accuracy)
	log.Infof("Test F1 (macro): %.4f", result.Metrics.F1Macro)

	if cfg.Notifications.TelegramEnabled {
		notifyRetrainingComplete(cfg, metricsRepo, result, logger)
	}
	return nil
}

func notifyRetrainingComplete(cfg *config.Config, metricsRepo repository.MetricsRepository, result *training.Result, logger *zap.Logger) {
	notifier, err := notify.NewTelegramNotifier(cfg.Notifications.TelegramBotToken, cfg.Notifications.TelegramChatID, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier", zap.Error(err))
		return
	}

	var previous *models.MetricsSummary
	if summary, err := metricsRepo.Compare([]int{result.Version - 1}); err == nil {
		if s, ok := summary[result.Version-1]; ok {
			previous = &s
		}
	}
	notifier.RetrainingComplete(result.Version, result.Metrics, previous)
}
