// Package registry is the on-disk catalogue of versioned model
// artifacts. Each version owns a gob-encoded classifier and vectorizer
// plus a JSON label schema; a single pointer file marks the version
// serving live predictions.
package registry

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/textclf"
)

var (
	// ErrVersionNotFound is returned when a version, one of its
	// artifacts, or the current-version pointer does not exist.
	ErrVersionNotFound = errors.New("model version not found")

	// ErrVersionConflict is returned when registering a version id that
	// already has artifacts. Registration never overwrites.
	ErrVersionConflict = errors.New("model version already registered")
)

// DefaultLabels is the fallback schema for versions registered without
// one (the unlabeled AG News baseline).
var DefaultLabels = []string{"World", "Sports", "Business", "Sci/Tech"}

const pointerFile = "current_version"

// Registry stores model artifacts under a single directory.
type Registry struct {
	dir    string
	logger *zap.Logger
}

// New creates a registry rooted at dir, creating the directory if
// needed.
func New(dir string, logger *zap.Logger) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}
	return &Registry{dir: dir, logger: logger}, nil
}

// CurrentVersion resolves the live version id. It prefers the pointer
// file; if the pointer is missing it falls back to the highest version
// discovered among stored artifacts, so a lost pointer file heals
// itself. ErrVersionNotFound means nothing is registered at all.
func (r *Registry) CurrentVersion() (int, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, pointerFile))
	if err == nil {
		version, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if convErr != nil {
			return 0, fmt.Errorf("corrupt current-version pointer: %w", convErr)
		}
		return version, nil
	}
	if !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to read current-version pointer: %w", err)
	}

	version, err := r.scanMaxVersion()
	if err != nil {
		return 0, err
	}
	if version == 0 {
		return 0, ErrVersionNotFound
	}
	r.logger.Warn("Current-version pointer missing, using highest registered version",
		zap.Int("version", version))
	return version, nil
}

// Load reads the artifacts and label schema for a version. A missing
// artifact yields ErrVersionNotFound; a file that exists but cannot be
// decoded is surfaced as a decode error, never retried or defaulted.
func (r *Registry) Load(version int) (*textclf.LinearClassifier, *textclf.TFIDFVectorizer, []string, error) {
	var model textclf.LinearClassifier
	if err := r.readGob(r.modelPath(version), version, "classifier", &model); err != nil {
		return nil, nil, nil, err
	}
	var vectorizer textclf.TFIDFVectorizer
	if err := r.readGob(r.vectorizerPath(version), version, "vectorizer", &vectorizer); err != nil {
		return nil, nil, nil, err
	}
	labels, err := r.LabelSchema(version)
	if err != nil {
		return nil, nil, nil, err
	}
	return &model, &vectorizer, labels, nil
}

// Register persists the artifacts for a new version id. It fails with
// ErrVersionConflict if any artifact for that id already exists.
// Registration does not touch the current-version pointer; a version
// goes live only through Promote.
func (r *Registry) Register(version int, model *textclf.LinearClassifier, vectorizer *textclf.TFIDFVectorizer, labels []string) error {
	for _, path := range []string{r.modelPath(version), r.vectorizerPath(version), r.labelsPath(version)} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("version %d: %w", version, ErrVersionConflict)
		}
	}

	if err := r.writeGob(r.modelPath(version), model); err != nil {
		return fmt.Errorf("version %d classifier: %w", version, err)
	}
	if err := r.writeGob(r.vectorizerPath(version), vectorizer); err != nil {
		return fmt.Errorf("version %d vectorizer: %w", version, err)
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("version %d label schema: %w", version, err)
	}
	if err := atomicWrite(r.labelsPath(version), data); err != nil {
		return fmt.Errorf("version %d label schema: %w", version, err)
	}

	r.logger.Info("Registered model version", zap.Int("version", version))
	return nil
}

// Promote atomically points the registry at an already-registered
// version. Readers observe either the old or the new pointer value.
func (r *Registry) Promote(version int) error {
	if _, err := os.Stat(r.modelPath(version)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cannot promote version %d: %w", version, ErrVersionNotFound)
		}
		return fmt.Errorf("cannot promote version %d: %w", version, err)
	}
	if err := atomicWrite(filepath.Join(r.dir, pointerFile), []byte(strconv.Itoa(version))); err != nil {
		return fmt.Errorf("failed to promote version %d: %w", version, err)
	}
	r.logger.Info("Promoted model version", zap.Int("version", version))
	return nil
}

// LabelSchema returns the ordered label list for a version, falling
// back to DefaultLabels when no schema file exists for that id.
func (r *Registry) LabelSchema(version int) ([]string, error) {
	data, err := os.ReadFile(r.labelsPath(version))
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), DefaultLabels...), nil
		}
		return nil, fmt.Errorf("version %d label schema: %w", version, err)
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("version %d label schema: %w", version, err)
	}
	return labels, nil
}

func (r *Registry) scanMaxVersion() (int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to scan registry directory: %w", err)
	}
	maxVersion := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "model_v") || !strings.HasSuffix(name, ".gob") {
			continue
		}
		version, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "model_v"), ".gob"))
		if err != nil {
			continue
		}
		if version > maxVersion {
			maxVersion = version
		}
	}
	return maxVersion, nil
}

func (r *Registry) modelPath(version int) string {
	return filepath.Join(r.dir, fmt.Sprintf("model_v%d.gob", version))
}

func (r *Registry) vectorizerPath(version int) string {
	return filepath.Join(r.dir, fmt.Sprintf("vectorizer_v%d.gob", version))
}

func (r *Registry) labelsPath(version int) string {
	return filepath.Join(r.dir, fmt.Sprintf("labels_v%d.json", version))
}

func (r *Registry) readGob(path string, version int, kind string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("version %d %s: %w", version, kind, ErrVersionNotFound)
		}
		return fmt.Errorf("version %d %s: %w", version, kind, err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("version %d %s: failed to decode artifact: %w", version, kind, err)
	}
	return nil
}

func (r *Registry) writeGob(path string, value interface{}) error {
	tmp, err := os.CreateTemp(r.dir, ".artifact-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := gob.NewEncoder(tmp).Encode(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// atomicWrite replaces path contents via a temp file and rename, so
// concurrent readers never see a partial write.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
