package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/textclf"
)

func emptyRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}
	return reg
}

// registerVersion trains a tiny business/sports model and promotes it
// under the given version id.
func registerVersion(t *testing.T, reg *registry.Registry, version int) {
	t.Helper()
	vectorizer := textclf.NewTFIDFVectorizer()
	vectorizer.MinDocFreq = 1
	vectorizer.MaxDocShare = 1.0
	rows := vectorizer.FitTransform([]string{
		"stocks fall on earnings",
		"stocks rally after report",
		"team wins the final",
		"team loses the opener",
	})
	classifier := textclf.NewLinearClassifier(2, len(vectorizer.IDF))
	if err := classifier.Fit(rows, []int{0, 0, 1, 1}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := reg.Register(version, classifier, vectorizer, []string{"Business", "Sports"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Promote(version); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
}

func TestPredictEmptyInput(t *testing.T) {
	// Blank input fails before any model access, so even an empty
	// registry reports ErrEmptyInput rather than a missing model.
	p := NewPredictor(emptyRegistry(t), zap.NewNop())

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := p.Predict(text); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Predict(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestPredictNoModelAvailable(t *testing.T) {
	p := NewPredictor(emptyRegistry(t), zap.NewNop())
	if _, err := p.Predict("some text"); !errors.Is(err, ErrNoModelAvailable) {
		t.Fatalf("Predict error = %v, want ErrNoModelAvailable", err)
	}
	if _, err := p.Reload(); !errors.Is(err, ErrNoModelAvailable) {
		t.Fatalf("Reload error = %v, want ErrNoModelAvailable", err)
	}
}

func TestPredictLazyLoadAndClassify(t *testing.T) {
	reg := emptyRegistry(t)
	registerVersion(t, reg, 1)
	p := NewPredictor(reg, zap.NewNop())

	if _, ok := p.LoadedVersion(); ok {
		t.Fatal("model loaded before first prediction")
	}

	pred, err := p.Predict("stocks fall on earnings")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Label != "Business" {
		t.Errorf("label = %q, want Business", pred.Label)
	}
	if pred.Version != 1 {
		t.Errorf("version = %d, want 1", pred.Version)
	}
	if pred.Confidence <= 0 || pred.Confidence > 1 {
		t.Errorf("confidence = %f outside (0,1]", pred.Confidence)
	}

	if version, ok := p.LoadedVersion(); !ok || version != 1 {
		t.Errorf("LoadedVersion = %d, %v, want 1, true", version, ok)
	}

	pred, err = p.Predict("team wins the final")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Label != "Sports" {
		t.Errorf("label = %q, want Sports", pred.Label)
	}
}

func TestReloadSwapsToPromotedVersion(t *testing.T) {
	reg := emptyRegistry(t)
	registerVersion(t, reg, 1)
	p := NewPredictor(reg, zap.NewNop())

	if version, err := p.Reload(); err != nil || version != 1 {
		t.Fatalf("Reload = %d, %v, want 1", version, err)
	}

	// A newly promoted version is picked up only on reload.
	registerVersion(t, reg, 2)
	pred, err := p.Predict("stocks fall on earnings")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Version != 1 {
		t.Errorf("prediction used version %d before reload, want 1", pred.Version)
	}

	if version, err := p.Reload(); err != nil || version != 2 {
		t.Fatalf("Reload = %d, %v, want 2", version, err)
	}
	pred, err = p.Predict("stocks fall on earnings")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Version != 2 {
		t.Errorf("prediction used version %d after reload, want 2", pred.Version)
	}
}
