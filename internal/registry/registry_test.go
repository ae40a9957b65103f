package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/textclf"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return reg
}

// fittedArtifacts trains a minimal classifier/vectorizer pair so the
// registry round-trips real, fitted state.
func fittedArtifacts(t *testing.T) (*textclf.LinearClassifier, *textclf.TFIDFVectorizer) {
	t.Helper()
	vectorizer := textclf.NewTFIDFVectorizer()
	vectorizer.MinDocFreq = 1
	vectorizer.MaxDocShare = 1.0
	rows := vectorizer.FitTransform([]string{
		"stocks fall on earnings",
		"team wins the final",
		"stocks rally after report",
		"team loses the opener",
	})
	classifier := textclf.NewLinearClassifier(2, len(vectorizer.Vocabulary))
	if err := classifier.Fit(rows, []int{0, 1, 0, 1}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	return classifier, vectorizer
}

func TestRegisterLoadRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	classifier, vectorizer := fittedArtifacts(t)
	labels := []string{"Business", "Sports"}

	if err := reg.Register(1, classifier, vectorizer, labels); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	gotClassifier, gotVectorizer, gotLabels, err := reg.Load(1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(gotLabels) != 2 || gotLabels[0] != "Business" || gotLabels[1] != "Sports" {
		t.Errorf("labels = %v, want %v", gotLabels, labels)
	}
	if !gotVectorizer.Fitted() {
		t.Error("loaded vectorizer lost fitted state")
	}

	text := "stocks fall on earnings"
	want := classifier.Predict(vectorizer.Transform([]string{text}))[0]
	got := gotClassifier.Predict(gotVectorizer.Transform([]string{text}))[0]
	if got != want {
		t.Errorf("loaded model predicts %d, original predicts %d", got, want)
	}
}

func TestRegisterRejectsDuplicateVersion(t *testing.T) {
	reg := newTestRegistry(t)
	classifier, vectorizer := fittedArtifacts(t)

	if err := reg.Register(1, classifier, vectorizer, DefaultLabels); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	err := reg.Register(1, classifier, vectorizer, DefaultLabels)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("duplicate Register error = %v, want ErrVersionConflict", err)
	}

	// The first registration must be intact after the refusal.
	if _, _, _, err := reg.Load(1); err != nil {
		t.Fatalf("Load after rejected duplicate failed: %v", err)
	}
}

func TestLoadMissingVersion(t *testing.T) {
	reg := newTestRegistry(t)
	if _, _, _, err := reg.Load(7); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("Load(7) error = %v, want ErrVersionNotFound", err)
	}
}

func TestCurrentVersionEmptyRegistry(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.CurrentVersion(); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("CurrentVersion error = %v, want ErrVersionNotFound", err)
	}
}

func TestPromoteSetsCurrentVersion(t *testing.T) {
	reg := newTestRegistry(t)
	classifier, vectorizer := fittedArtifacts(t)

	for version := 1; version <= 2; version++ {
		if err := reg.Register(version, classifier, vectorizer, DefaultLabels); err != nil {
			t.Fatalf("Register(%d) failed: %v", version, err)
		}
	}

	if err := reg.Promote(1); err != nil {
		t.Fatalf("Promote(1) failed: %v", err)
	}
	if version, err := reg.CurrentVersion(); err != nil || version != 1 {
		t.Fatalf("CurrentVersion = %d, %v, want 1", version, err)
	}

	if err := reg.Promote(2); err != nil {
		t.Fatalf("Promote(2) failed: %v", err)
	}
	if version, err := reg.CurrentVersion(); err != nil || version != 2 {
		t.Fatalf("CurrentVersion = %d, %v, want 2", version, err)
	}
}

func TestPromoteUnregisteredVersion(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.Promote(3); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("Promote(3) error = %v, want ErrVersionNotFound", err)
	}
}

func TestCurrentVersionScanFallback(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	classifier, vectorizer := fittedArtifacts(t)

	for _, version := range []int{1, 2, 3} {
		if err := reg.Register(version, classifier, vectorizer, DefaultLabels); err != nil {
			t.Fatalf("Register(%d) failed: %v", version, err)
		}
	}
	if err := reg.Promote(3); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}

	// A lost pointer file heals to the highest registered version.
	if err := os.Remove(filepath.Join(dir, "current_version")); err != nil {
		t.Fatalf("remove pointer: %v", err)
	}
	if version, err := reg.CurrentVersion(); err != nil || version != 3 {
		t.Fatalf("CurrentVersion after pointer loss = %d, %v, want 3", version, err)
	}
}

func TestLabelSchemaFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	classifier, vectorizer := fittedArtifacts(t)
	if err := reg.Register(1, classifier, vectorizer, []string{"a", "b"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "labels_v1.json")); err != nil {
		t.Fatalf("remove labels: %v", err)
	}

	labels, err := reg.LabelSchema(1)
	if err != nil {
		t.Fatalf("LabelSchema failed: %v", err)
	}
	if len(labels) != len(DefaultLabels) {
		t.Fatalf("labels = %v, want defaults %v", labels, DefaultLabels)
	}
	for i := range labels {
		if labels[i] != DefaultLabels[i] {
			t.Fatalf("labels = %v, want defaults %v", labels, DefaultLabels)
		}
	}
}

func TestCurrentVersionCorruptPointer(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "current_version"), []byte("banana"), 0o644); err != nil {
		t.Fatalf("write pointer: %v", err)
	}
	if _, err := reg.CurrentVersion(); err == nil {
		t.Fatal("corrupt pointer accepted")
	}
}
