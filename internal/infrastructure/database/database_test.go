package database

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
)

func TestDialect_Rebind(t *testing.T) {
	query := "SELECT id FROM word_sets WHERE name = ? AND updated_at >= ? LIMIT ?"
	if got := DialectFor("sqlite3").Rebind(query); got != query {
		t.Fatalf("sqlite should keep placeholders, got %q", got)
	}
	want := "SELECT id FROM word_sets WHERE name = $1 AND updated_at >= $2 LIMIT $3"
	for _, driver := range []string{"postgres", "pgx"} {
		d := DialectFor(driver)
		if d.Name() != driver {
			t.Fatalf("unexpected name %q", d.Name())
		}
		if got := d.Rebind(query); got != want {
			t.Fatalf("%s rebind = %q", driver, got)
		}
	}
}

func TestNewConnection_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite3", DSN: "file::memory:"}}
	logger, _ := test.NewNullLogger()

	db, cleanup, err := NewConnection(cfg, logger)
	if err != nil {
		t.Fatalf("NewConnection error: %v", err)
	}
	defer cleanup()

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second migration should be a no-op, got %v", err)
	}
	for _, table := range []string{"word_sets", "word_set_words"} {
		var name string
		row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestNewConnection_RejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle", DSN: "x"}}
	logger, _ := test.NewNullLogger()
	if _, _, err := NewConnection(cfg, logger); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
