package training

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/joshibibhushan/HumanLoopML/internal/corpus"
	"github.com/joshibibhushan/HumanLoopML/internal/evaluation"
	"github.com/joshibibhushan/HumanLoopML/internal/models"
	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
	"github.com/joshibibhushan/HumanLoopML/internal/textclf"
)

var (
	// ErrNoBaselineModel is returned when retraining is attempted with
	// no registered model. Retraining never bootstraps from nothing.
	ErrNoBaselineModel = errors.New("no baseline model registered")

	// ErrUnknownLabel is returned when a feedback label is not part of
	// the active schema. Retraining never invents new classes.
	ErrUnknownLabel = errors.New("feedback label not in schema")
)

// Options controls a retraining run.
type Options struct {
	// FeedbackWeight is the repetition count for each feedback pair in
	// the combined training set. 0 disables feedback influence while
	// still recording that the run happened.
	FeedbackWeight int

	// RefitVectorizer fits a fresh vocabulary on the combined training
	// texts instead of reusing the baseline vocabulary.
	RefitVectorizer bool

	// MaxFeatures overrides the vocabulary cap when a fresh vectorizer
	// is fitted. Zero keeps the default.
	MaxFeatures int
}

// Pipeline is the feedback-driven retraining run. A single instance is
// meant to run at a time; concurrent runs are caught by the version
// conflict check at commit, not by a lock.
type Pipeline struct {
	Registry *registry.Registry
	Feedback repository.FeedbackRepository
	Metrics  repository.MetricsRepository
	Corpus   corpus.Source
	Log      *logrus.Logger
}

// Run executes the retraining stages strictly in order: resolve
// baseline, load corpus, load feedback, combine, vectorize, fit,
// evaluate, commit. A failure at any stage aborts the whole run with
// the registry and stores left in their pre-run state; registration,
// metrics persistence and promotion all happen at the end.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	if opts.FeedbackWeight < 0 {
		return nil, fmt.Errorf("feedback weight must not be negative, got %d", opts.FeedbackWeight)
	}

	base, err := p.Registry.CurrentVersion()
	if err != nil {
		if errors.Is(err, registry.ErrVersionNotFound) {
			return nil, ErrNoBaselineModel
		}
		return nil, err
	}
	next := base + 1
	p.Log.Infof("Current model version: v%d", base)
	p.Log.Infof("Training new model version: v%d", next)

	ds, err := p.Corpus.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	schema, err := p.Registry.LabelSchema(base)
	if err != nil {
		return nil, err
	}

	pairs, err := p.Feedback.TrainingPairs()
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		p.Log.Warn("No feedback samples found, retraining on original corpus only")
	}
	p.Log.Infof("Loaded %d feedback samples", len(pairs))

	texts, labels, err := combine(ds.TrainTexts, ds.TrainLabels, pairs, schema, opts.FeedbackWeight)
	if err != nil {
		return nil, err
	}
	p.Log.Infof("Combined dataset: %d original + %d feedback x%d = %d samples",
		len(ds.TrainTexts), len(pairs), opts.FeedbackWeight, len(texts))

	vectorizer, reused, err := p.resolveVectorizer(base, opts)
	if err != nil {
		return nil, err
	}
	var trainRows []textclf.Vector
	if reused {
		p.Log.Infof("Reusing vectorizer vocabulary from v%d", base)
		trainRows = vectorizer.Transform(texts)
	} else {
		p.Log.Info("Fitting fresh TF-IDF vectorizer...")
		trainRows = vectorizer.FitTransform(texts)
	}

	classifier := textclf.NewLinearClassifier(len(schema), len(vectorizer.IDF))
	p.Log.Info("Training classifier...")
	if err := classifier.Fit(trainRows, labels); err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	// Evaluation runs on the held-out test split only, never on
	// training or feedback data.
	p.Log.Info("Evaluating on test set...")
	preds := classifier.Predict(vectorizer.Transform(ds.TestTexts))
	metrics, err := evaluation.Evaluate(ds.TestLabels, preds, schema)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	p.Log.Infof("Test accuracy: %.4f", metrics.Accuracy)
	p.Log.Infof("Test F1 (macro): %.4f", metrics.F1Macro)

	// Commit: register, persist metrics, then promote. If metrics
	// persistence fails the new version is never promoted, so the prior
	// version keeps serving.
	if err := p.Registry.Register(next, classifier, vectorizer, schema); err != nil {
		return nil, err
	}
	if err := p.Metrics.Save(next, metrics); err != nil {
		return nil, err
	}
	if err := p.Registry.Promote(next); err != nil {
		return nil, err
	}

	p.logImprovement(base, metrics)

	return &Result{
		Version:          next,
		Metrics:          metrics,
		OriginalSamples:  len(ds.TrainTexts),
		FeedbackSamples:  len(pairs),
		CombinedSamples:  len(texts),
		VectorizerReused: reused,
	}, nil
}

// resolveVectorizer reuses the baseline vocabulary so the feature space
// stays stable across versions, unless the operator asked for a refit
// or the baseline vectorizer artifact is gone.
func (p *Pipeline) resolveVectorizer(base int, opts Options) (*textclf.TFIDFVectorizer, bool, error) {
	if !opts.RefitVectorizer {
		_, vectorizer, _, err := p.Registry.Load(base)
		if err == nil && vectorizer.Fitted() {
			return vectorizer, true, nil
		}
		if err != nil && !errors.Is(err, registry.ErrVersionNotFound) {
			return nil, false, err
		}
		p.Log.Warnf("Vectorizer for v%d unavailable, fitting a fresh one", base)
	}
	vectorizer := textclf.NewTFIDFVectorizer()
	if opts.MaxFeatures > 0 {
		vectorizer.MaxFeatures = opts.MaxFeatures
	}
	return vectorizer, false, nil
}

// combine appends the feedback pairs to the original training set, each
// pair repeated weight times. Originals come first and feedback keeps
// its insertion order, so runs are reproducible. Pairs with labels
// outside the schema are fatal; blank pairs are skipped defensively.
func combine(texts []string, labels []int, pairs []models.TrainingPair, schema []string, weight int) ([]string, []int, error) {
	labelIDs := make(map[string]int, len(schema))
	for i, name := range schema {
		labelIDs[name] = i
	}

	combinedTexts := append([]string(nil), texts...)
	combinedLabels := append([]int(nil), labels...)
	for _, pair := range pairs {
		if strings.TrimSpace(pair.Text) == "" || strings.TrimSpace(pair.Label) == "" {
			continue
		}
		id, ok := labelIDs[pair.Label]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownLabel, pair.Label)
		}
		for i := 0; i < weight; i++ {
			combinedTexts = append(combinedTexts, pair.Text)
			combinedLabels = append(combinedLabels, id)
		}
	}
	return combinedTexts, combinedLabels, nil
}

func (p *Pipeline) logImprovement(base int, metrics *models.Metrics) {
	baseMetrics, err := p.Metrics.Get(base)
	if err != nil {
		return
	}
	p.Log.Infof("Improvement over v%d: accuracy %+.4f, F1 (macro) %+.4f",
		base, metrics.Accuracy-baseMetrics.Accuracy, metrics.F1Macro-baseMetrics.F1Macro)
}
