package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
)

// DB bundles the connection pool with the dialect queries must be written for.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// NewConnection opens, pings and migrates the configured database.
func NewConnection(cfg *config.Config, logger logrus.FieldLogger) (*DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	var rawDB *sql.DB
	switch driver {
	case "pgx":
		rawDB, err = openPgx(dsn, cfg.Database.LogSQL, logger)
	default:
		rawDB, err = sql.Open(driver, dsn)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	dialect := DialectFor(driver)
	dialect.configure(rawDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if driver == "sqlite3" {
		if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			rawDB.Close()
			return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	db := &DB{DB: rawDB, Dialect: dialect}
	if err := Migrate(ctx, db); err != nil {
		rawDB.Close()
		return nil, nil, err
	}

	logger.WithField("driver", driver).Debug("database ready")
	return db, func() {
		_ = rawDB.Close()
	}, nil
}

func openPgx(dsn string, logSQL bool, logger logrus.FieldLogger) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if logSQL {
		connCfg.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithFields(logrus.Fields(data)).WithField("pgx_level", lvl.String()).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}
	return stdlib.OpenDB(*connCfg), nil
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range db.Dialect.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
