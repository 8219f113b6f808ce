package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string
	// Rebind converts ? placeholders into the backend's native syntax.
	Rebind(query string) string
	// Schema returns the idempotent DDL statements for the word set tables.
	Schema() []string
	configure(db *sql.DB)
}

// DialectFor returns the dialect of a normalised driver name.
func DialectFor(driver string) Dialect {
	switch driver {
	case "postgres", "pgx":
		return postgresDialect{driver: driver}
	default:
		return sqliteDialect{}
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS word_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_word_sets_name ON word_sets(name)`,
		`CREATE TABLE IF NOT EXISTS word_set_words (
			word_set_id TEXT NOT NULL REFERENCES word_sets(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			meaning TEXT NOT NULL,
			PRIMARY KEY (word_set_id, position)
		)`,
	}
}

// SQLite allows a single writer; one connection also keeps :memory: databases alive.
func (sqliteDialect) configure(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
}

type postgresDialect struct {
	driver string
}

func (d postgresDialect) Name() string { return d.driver }

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	counter := 0
	for _, r := range query {
		if r == '?' {
			counter++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(counter))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (postgresDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS word_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_word_sets_name ON word_sets(name)`,
		`CREATE TABLE IF NOT EXISTS word_set_words (
			word_set_id TEXT NOT NULL REFERENCES word_sets(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			meaning TEXT NOT NULL,
			PRIMARY KEY (word_set_id, position)
		)`,
	}
}

func (postgresDialect) configure(db *sql.DB) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}
