package app

import (
	"path/filepath"
	"testing"

	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
)

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveMigrationsDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(dir)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	t.Setenv("MIGRATIONS_DIR", dir)
	got, err = resolveMigrationsDir("")
	if err != nil || got != want {
		t.Fatalf("expected env dir %q, got %q (%v)", want, got, err)
	}
}

func TestResolveMigrationsDir_NotFound(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", filepath.Join(t.TempDir(), "missing"))
	t.Chdir(t.TempDir())

	if _, err := resolveMigrationsDir(""); err == nil {
		t.Fatalf("expected error when no migrations dir exists")
	}
}

func TestNewMigrator_RequiresDBURL(t *testing.T) {
	if _, err := NewMigrator(config.Config{}, t.TempDir(), logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty DB_URL")
	}
}
