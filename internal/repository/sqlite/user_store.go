package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/NordCoder/sessiongate/internal/domain/user"
)

var _ user.Store = (*UserStore)(nil)

type userRow struct {
	ID         int64  `db:"id"`
	Identifier string `db:"identifier"`
	SecretHash string `db:"secret_hash"`
	Role       string `db:"role"`
	Avatar     string `db:"avatar"`
}

type UserStore struct {
	db      *sqlx.DB
	timeout time.Duration
	query   string
}

func Open(ctx context.Context, dsn string, timeout time.Duration) (*UserStore, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewUserStore(db, timeout), nil
}

func NewUserStore(db *sqlx.DB, timeout time.Duration) *UserStore {
	return &UserStore{
		db:      db,
		timeout: timeout,
		query:   db.Rebind(`SELECT id, identifier, secret_hash, role, avatar FROM users WHERE identifier = ?`),
	}
}

func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*user.Record, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var row userRow
	if err := s.db.GetContext(ctx, &row, s.query, identifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("user by identifier: %w", err)
	}
	if row.ID < 0 || row.ID > math.MaxUint32 {
		return nil, fmt.Errorf("user by identifier: id %d out of range", row.ID)
	}
	return &user.Record{
		ID:         uint32(row.ID),
		Identifier: row.Identifier,
		SecretHash: row.SecretHash,
		Role:       row.Role,
		Avatar:     row.Avatar,
	}, nil
}

func (s *UserStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *UserStore) DB() *sql.DB { return s.db.DB }

func (s *UserStore) Close() error { return s.db.Close() }
