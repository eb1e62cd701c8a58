package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	tokens "github.com/NordCoder/sessiongate/internal/auth"
	config "github.com/NordCoder/sessiongate/internal/config/session-gateway"
	"github.com/NordCoder/sessiongate/internal/domain/user"
	"github.com/NordCoder/sessiongate/internal/obs"
	"github.com/NordCoder/sessiongate/internal/repository/migrations"
)

// migrator applies the users schema to the SQL store named in the
// session-gateway config and optionally seeds it with the configured users.
func main() {
	var (
		cfgPath = flag.String("config", envOr("CONFIG_PATH", "config/session-gateway.yaml"), "config file")
		down    = flag.Bool("down", false, "roll back the latest migration")
		seed    = flag.Bool("seed", false, "insert configured users after migrating")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := obs.NewLogger(cfg.LogConfig())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger = obs.Component(logger, "migrator")

	driver, dsn, dialect, err := target(cfg)
	if err != nil {
		logger.Fatal("select target", zap.Error(err))
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	if *down {
		if err := migrations.Down(ctx, db, dialect); err != nil {
			logger.Fatal("migrate down", zap.Error(err))
		}
		logger.Info("migrations: down OK")
		return
	}

	n, err := migrations.Up(ctx, db, dialect)
	if err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}
	logger.Info("migrations: up OK", zap.Int("applied", n))

	if *seed {
		inserted, err := seedUsers(ctx, sqlx.NewDb(db, driver), cfg.Users, tokens.NewBcryptHasher(cfg.Auth.HashCost))
		if err != nil {
			logger.Fatal("seed users", zap.Error(err))
		}
		logger.Info("users seeded", zap.Int("inserted", inserted), zap.Int("configured", len(cfg.Users)))
	}
}

func target(cfg *config.Config) (driver, dsn, dialect string, err error) {
	switch cfg.Store.Kind {
	case config.StorePostgres:
		return "pgx", cfg.Store.Postgres.DSN, migrations.DialectPostgres, nil
	case config.StoreSQLite:
		return "sqlite3", cfg.Store.SQLite.DSN, migrations.DialectSQLite, nil
	default:
		return "", "", "", fmt.Errorf("store kind %q has no schema", cfg.Store.Kind)
	}
}

const qSeedUser = `INSERT INTO users (id, identifier, secret_hash, role, avatar)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (identifier) DO NOTHING`

// seedUsers hashes and inserts seeds, leaving existing identifiers untouched.
func seedUsers(ctx context.Context, db *sqlx.DB, seeds []user.Seed, h *tokens.BcryptHasher) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(qSeedUser)
	inserted := 0
	for _, s := range seeds {
		hash, err := h.Hash(s.Secret)
		if err != nil {
			return 0, fmt.Errorf("hash %q: %w", s.Identifier, err)
		}
		res, err := tx.ExecContext(ctx, q, s.ID, s.Identifier, hash, s.Role, s.Avatar)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", s.Identifier, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
