// Package training implements baseline model training and the
// feedback-driven retraining pipeline. Both are blocking batch jobs
// triggered by an operator; a failure at any stage aborts the run
// before anything is registered or promoted.
package training

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/joshibibhushan/HumanLoopML/internal/corpus"
	"github.com/joshibibhushan/HumanLoopML/internal/evaluation"
	"github.com/joshibibhushan/HumanLoopML/internal/models"
	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
	"github.com/joshibibhushan/HumanLoopML/internal/textclf"
)

// baselineVersion is the version id of the first trained model.
// Retraining always builds on an existing baseline.
const baselineVersion = 1

// Result summarizes a completed training run.
type Result struct {
	Version          int
	Metrics          *models.Metrics
	OriginalSamples  int
	FeedbackSamples  int
	CombinedSamples  int
	VectorizerReused bool
}

// TrainBaseline fits a fresh vectorizer and classifier on the original
// corpus, evaluates on the held-out test split, registers the result as
// version 1 and promotes it. Fails with the registry's version conflict
// if a baseline already exists.
func TrainBaseline(src corpus.Source, reg *registry.Registry, metricsRepo repository.MetricsRepository, maxFeatures int, log *logrus.Logger) (*Result, error) {
	log.Info("Loading original corpus...")
	ds, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	log.Infof("Training samples: %d", len(ds.TrainTexts))
	log.Infof("Test samples: %d", len(ds.TestTexts))

	vectorizer := textclf.NewTFIDFVectorizer()
	if maxFeatures > 0 {
		vectorizer.MaxFeatures = maxFeatures
	}
	log.Info("Fitting TF-IDF vectorizer...")
	trainRows := vectorizer.FitTransform(ds.TrainTexts)
	log.Infof("Vocabulary size: %d", len(vectorizer.Vocabulary))

	classifier := textclf.NewLinearClassifier(len(ds.LabelNames), len(vectorizer.IDF))
	log.Info("Training classifier...")
	if err := classifier.Fit(trainRows, ds.TrainLabels); err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	log.Info("Evaluating on test set...")
	preds := classifier.Predict(vectorizer.Transform(ds.TestTexts))
	metrics, err := evaluation.Evaluate(ds.TestLabels, preds, ds.LabelNames)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	log.Infof("Test accuracy: %.4f", metrics.Accuracy)
	log.Infof("Test F1 (macro): %.4f", metrics.F1Macro)

	if err := reg.Register(baselineVersion, classifier, vectorizer, ds.LabelNames); err != nil {
		return nil, err
	}
	if err := metricsRepo.Save(baselineVersion, metrics); err != nil {
		return nil, err
	}
	if err := reg.Promote(baselineVersion); err != nil {
		return nil, err
	}

	return &Result{
		Version:         baselineVersion,
		Metrics:         metrics,
		OriginalSamples: len(ds.TrainTexts),
		CombinedSamples: len(ds.TrainTexts),
	}, nil
}
