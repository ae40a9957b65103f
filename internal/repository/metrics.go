package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/models"
)

var (
	// ErrMetricsNotFound is returned when no metrics are stored for a
	// version.
	ErrMetricsNotFound = errors.New("metrics not found")

	// ErrMetricsExist is returned on an attempt to overwrite a stored
	// metrics record. Metrics are written once per version.
	ErrMetricsExist = errors.New("metrics already stored for version")
)

// MetricsRepository persists one evaluation record per model version.
type MetricsRepository interface {
	Save(version int, metrics *models.Metrics) error
	Get(version int) (*models.Metrics, error)
	Compare(versions []int) (map[int]models.MetricsSummary, error)
}

type metricsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(db *sqlx.DB, logger *zap.Logger) MetricsRepository {
	return &metricsRepository{db: db, logger: logger}
}

// Save stores the metrics record for a version. The record is
// immutable; saving twice for the same version fails.
func (r *metricsRepository) Save(version int, metrics *models.Metrics) error {
	var exists int
	query := r.db.Rebind(`SELECT COUNT(1) FROM metrics WHERE model_version = ?`)
	if err := r.db.Get(&exists, query, version); err != nil {
		return fmt.Errorf("failed to check metrics for version %d: %w", version, err)
	}
	if exists > 0 {
		return fmt.Errorf("version %d: %w", version, ErrMetricsExist)
	}

	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics for version %d: %w", version, err)
	}

	query = r.db.Rebind(`
		INSERT INTO metrics (model_version, payload, created_at)
		VALUES (?, ?, ?)
	`)
	if _, err := r.db.Exec(query, version, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save metrics for version %d: %w", version, err)
	}

	r.logger.Info("Metrics saved",
		zap.Int("model_version", version),
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("f1_macro", metrics.F1Macro))
	return nil
}

// Get returns the stored metrics record for a version.
func (r *metricsRepository) Get(version int) (*models.Metrics, error) {
	var payload string
	query := r.db.Rebind(`SELECT payload FROM metrics WHERE model_version = ?`)
	if err := r.db.Get(&payload, query, version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("version %d: %w", version, ErrMetricsNotFound)
		}
		return nil, fmt.Errorf("failed to load metrics for version %d: %w", version, err)
	}

	var metrics models.Metrics
	if err := json.Unmarshal([]byte(payload), &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics for version %d: %w", version, err)
	}
	return &metrics, nil
}

// Compare returns the summary metrics for each requested version.
// Versions with no stored metrics are silently omitted; partial history
// is expected during early operation.
func (r *metricsRepository) Compare(versions []int) (map[int]models.MetricsSummary, error) {
	comparison := make(map[int]models.MetricsSummary, len(versions))
	for _, version := range versions {
		metrics, err := r.Get(version)
		if err != nil {
			if errors.Is(err, ErrMetricsNotFound) {
				continue
			}
			return nil, err
		}
		comparison[version] = models.MetricsSummary{
			Accuracy:   metrics.Accuracy,
			F1Macro:    metrics.F1Macro,
			F1Weighted: metrics.F1Weighted,
		}
	}
	return comparison, nil
}
