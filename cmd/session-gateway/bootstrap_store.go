package main

import (
	"context"
	"fmt"

	tokens "github.com/NordCoder/sessiongate/internal/auth"
	config "github.com/NordCoder/sessiongate/internal/config/session-gateway"
	"github.com/NordCoder/sessiongate/internal/domain/user"
	"github.com/NordCoder/sessiongate/internal/repository/memory"
	pg "github.com/NordCoder/sessiongate/internal/repository/postgres"
	"github.com/NordCoder/sessiongate/internal/repository/sqlite"
	"go.uber.org/zap"
)

type storeHandle struct {
	users user.Store
	close func()
}

func initStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storeHandle, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		s, err := memory.NewUserStore(cfg.Users, tokens.NewBcryptHasher(cfg.Auth.HashCost))
		if err != nil {
			return nil, err
		}
		logger.Info("memory user store ready", zap.Int("users", s.Len()))
		return &storeHandle{users: s, close: func() {}}, nil

	case config.StorePostgres:
		db, err := pg.New(ctx, cfg.Store.Postgres)
		if err != nil {
			return nil, err
		}
		logger.Info("postgres user store ready")
		return &storeHandle{users: pg.NewUserRepo(db), close: db.Close}, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.SQLite.DSN, cfg.Store.SQLite.QueryTimeout)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite user store ready")
		return &storeHandle{users: s, close: func() { _ = s.Close() }}, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
}
