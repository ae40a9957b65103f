package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/models"
)

// ErrInvalidFeedback is returned when a feedback submission has a blank
// text or human label. Nothing is written in that case.
var ErrInvalidFeedback = errors.New("invalid feedback")

// FeedbackRepository is the append-only store of human corrections.
type FeedbackRepository interface {
	Append(record *models.FeedbackRecord) error
	LoadAll() ([]*models.FeedbackRecord, error)
	TrainingPairs() ([]models.TrainingPair, error)
}

type feedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) FeedbackRepository {
	return &feedbackRepository{db: db, logger: logger}
}

// Append validates and stores one feedback record. The creation
// timestamp is stamped here, at the moment of acceptance; callers get
// the stamped record back through the passed pointer. Prior entries are
// never touched.
func (r *feedbackRepository) Append(record *models.FeedbackRecord) error {
	if strings.TrimSpace(record.Text) == "" {
		return fmt.Errorf("%w: text must not be empty", ErrInvalidFeedback)
	}
	if strings.TrimSpace(record.HumanLabel) == "" {
		return fmt.Errorf("%w: human label must not be empty", ErrInvalidFeedback)
	}

	record.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO feedback (text, model_prediction, human_label, model_version, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRow(
		query,
		record.Text,
		record.ModelPrediction,
		record.HumanLabel,
		record.ModelVersion,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to append feedback: %w", err)
	}

	r.logger.Info("Feedback recorded",
		zap.Int64("id", record.ID),
		zap.String("human_label", record.HumanLabel),
		zap.Int("model_version", record.ModelVersion))
	return nil
}

// LoadAll returns every stored record in insertion order. An empty
// store yields an empty slice, not an error.
func (r *feedbackRepository) LoadAll() ([]*models.FeedbackRecord, error) {
	records := []*models.FeedbackRecord{}
	query := `
		SELECT id, text, model_prediction, human_label, model_version, created_at
		FROM feedback
		ORDER BY id
	`
	if err := r.db.Select(&records, query); err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	return records, nil
}

// TrainingPairs returns the (text, human_label) projection used by the
// retraining pipeline. Blank rows cannot be appended through this
// repository, but a store written by older tooling is still read
// defensively: rows with a blank text or label are skipped, not fatal.
func (r *feedbackRepository) TrainingPairs() ([]models.TrainingPair, error) {
	pairs := []models.TrainingPair{}
	query := `
		SELECT text, human_label
		FROM feedback
		WHERE TRIM(text) <> '' AND TRIM(human_label) <> ''
		ORDER BY id
	`
	if err := r.db.Select(&pairs, query); err != nil {
		return nil, fmt.Errorf("failed to load training pairs: %w", err)
	}
	return pairs, nil
}
