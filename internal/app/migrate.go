package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
)

// Migrator applies the SQL files under db/migrations to the configured
// postgres database.
type Migrator struct {
	m         *migrate.Migrate
	sourceURL string
	logger    *logging.Logger
}

// MigrationVersion is the schema version recorded by the migrator. Version is
// zero and Applied false when no migration has run yet.
type MigrationVersion struct {
	Version uint
	Dirty   bool
	Applied bool
}

func NewMigrator(cfg config.Config, migrationsDir string, logger *logging.Logger) (*Migrator, error) {
	if logger == nil {
		logger = logging.Default()
	}
	dbURL := strings.TrimSpace(cfg.DBURL)
	if dbURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	dir, err := resolveMigrationsDir(migrationsDir)
	if err != nil {
		return nil, err
	}

	sourceURL := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(sourceURL, normalizeDBURL(dbURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, sourceURL: sourceURL, logger: logger}, nil
}

func (g *Migrator) Up() error {
	if err := ignoreNoChange(g.m.Up()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	g.logger.Info("migrations applied", "source", g.sourceURL)
	return nil
}

func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0")
	}
	if err := ignoreNoChange(g.m.Steps(-steps)); err != nil {
		return fmt.Errorf("roll back %d migration(s): %w", steps, err)
	}
	g.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func (g *Migrator) Goto(target uint) error {
	if err := ignoreNoChange(g.m.Migrate(target)); err != nil {
		return fmt.Errorf("migrate to version %d: %w", target, err)
	}
	g.logger.Info("migrated to version", "version", target)
	return nil
}

func (g *Migrator) Force(version int) error {
	if version < 0 {
		return fmt.Errorf("version must be >= 0")
	}
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	g.logger.Warn("migration version forced", "version", version)
	return nil
}

func (g *Migrator) Version() (MigrationVersion, error) {
	version, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationVersion{}, nil
	}
	if err != nil {
		return MigrationVersion{}, fmt.Errorf("read version: %w", err)
	}
	return MigrationVersion{Version: version, Dirty: dirty, Applied: true}, nil
}

func (g *Migrator) Close() {
	srcErr, dbErr := g.m.Close()
	if srcErr != nil {
		g.logger.Warn("close migration source failed", "error", srcErr)
	}
	if dbErr != nil {
		g.logger.Warn("close migration db failed", "error", dbErr)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := []string{
		strings.TrimSpace(explicit),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
