// Package cli implements the humanloopml subcommands: serve, train,
// retrain and compare.
package cli

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/config"
	"github.com/joshibibhushan/HumanLoopML/internal/corpus"
	"github.com/joshibibhushan/HumanLoopML/internal/registry"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
)

const defaultConfigPath = "configs/config.yml"

// newLogger builds the zap logger shared by the server and storage
// layers.
func newLogger() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// openDatabase connects to the configured database and applies
// migrations. For sqlite the parent directory is created so a fresh
// checkout works out of the box.
func openDatabase(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	if cfg.Database.Driver == "sqlite" {
		if dir := filepath.Dir(cfg.Database.URL); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.MigrateDB(db, cfg.Database.Driver, filepath.Join("migrations", cfg.Database.Driver), logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openRegistry(cfg *config.Config, logger *zap.Logger) (*registry.Registry, error) {
	return registry.New(cfg.Registry.Dir, logger)
}

func corpusSource(cfg *config.Config) corpus.Source {
	src := corpus.NewCSVSource(cfg.Corpus.TrainPath, cfg.Corpus.TestPath)
	if len(cfg.Corpus.Labels) > 0 {
		src.Labels = cfg.Corpus.Labels
	}
	return src
}
