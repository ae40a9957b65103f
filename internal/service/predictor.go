package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/textclf"
)

var (
	// ErrEmptyInput is returned for blank prediction input, before any
	// model load is attempted.
	ErrEmptyInput = errors.New("text cannot be empty")

	// ErrNoModelAvailable is returned when the registry has no
	// registered version to serve.
	ErrNoModelAvailable = errors.New("no model available")
)

// Prediction is the serving-layer answer for one input text.
type Prediction struct {
	Label      string
	Confidence float64
	Version    int
}

// modelHandle is one immutable loaded version. The predictor swaps the
// whole handle on reload, so in-flight predictions keep a consistent
// classifier/vectorizer/schema triple.
type modelHandle struct {
	version    int
	classifier *textclf.LinearClassifier
	vectorizer *textclf.TFIDFVectorizer
	labels     []string
}

// Predictor serves predictions from the registry's current model
// version. The model is loaded lazily on the first prediction and kept
// until Reload; reads are guarded by a read-mostly lock so concurrent
// prediction requests never block each other.
type Predictor struct {
	reg    *registry.Registry
	logger *zap.Logger

	mu     sync.RWMutex
	handle *modelHandle
}

// NewPredictor creates a predictor over the registry. No model is
// loaded until the first prediction or an explicit Reload.
func NewPredictor(reg *registry.Registry, logger *zap.Logger) *Predictor {
	return &Predictor{reg: reg, logger: logger}
}

// Predict classifies one text with the loaded model version. Blank
// input fails before any model access; a missing handle triggers a
// single lazy load attempt from the registry.
func (p *Predictor) Predict(text string) (*Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	handle, err := p.currentHandle()
	if err != nil {
		return nil, err
	}

	rows := handle.vectorizer.Transform([]string{text})
	labelID := handle.classifier.Predict(rows)[0]
	probs := handle.classifier.PredictProba(rows)[0]

	return &Prediction{
		Label:      labelName(handle.labels, labelID),
		Confidence: probs[labelID],
		Version:    handle.version,
	}, nil
}

// Reload resolves the registry's current version and swaps the handle
// atomically. Returns the loaded version id.
func (p *Predictor) Reload() (int, error) {
	handle, err := p.load()
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	p.handle = handle
	p.mu.Unlock()
	return handle.version, nil
}

// LoadedVersion reports the version currently held, if any.
func (p *Predictor) LoadedVersion() (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.handle == nil {
		return 0, false
	}
	return p.handle.version, true
}

func (p *Predictor) currentHandle() (*modelHandle, error) {
	p.mu.RLock()
	handle := p.handle
	p.mu.RUnlock()
	if handle != nil {
		return handle, nil
	}

	handle, err := p.load()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if p.handle == nil {
		p.handle = handle
	} else {
		// Another request won the load race; serve its handle.
		handle = p.handle
	}
	p.mu.Unlock()
	return handle, nil
}

func (p *Predictor) load() (*modelHandle, error) {
	version, err := p.reg.CurrentVersion()
	if err != nil {
		if errors.Is(err, registry.ErrVersionNotFound) {
			return nil, ErrNoModelAvailable
		}
		return nil, err
	}
	classifier, vectorizer, labels, err := p.reg.Load(version)
	if err != nil {
		if errors.Is(err, registry.ErrVersionNotFound) {
			return nil, ErrNoModelAvailable
		}
		return nil, err
	}
	p.logger.Info("Loaded model", zap.Int("version", version))
	return &modelHandle{
		version:    version,
		classifier: classifier,
		vectorizer: vectorizer,
		labels:     labels,
	}, nil
}

// labelName maps a label id to its schema name, falling back to a
// synthetic name for ids outside the schema.
func labelName(labels []string, id int) string {
	if id >= 0 && id < len(labels) {
		return labels[id]
	}
	return fmt.Sprintf("Label_%d", id)
}
