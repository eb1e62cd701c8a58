package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/NordCoder/sessiongate/internal/domain/user"
)

var _ user.Store = (*UserRepo)(nil)

// querier is the subset of *pgxpool.Pool the repo needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type UserRepo struct {
	q       querier
	timeout time.Duration
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{q: db.Pool, timeout: db.QueryTimeout}
}

const qUserByIdentifier = `
SELECT id, identifier, secret_hash, role, avatar
FROM users
WHERE identifier = $1;`

func (r *UserRepo) FindByIdentifier(ctx context.Context, identifier string) (*user.Record, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var (
		rec user.Record
		id  int64
	)
	err := r.q.QueryRow(ctx, qUserByIdentifier, identifier).
		Scan(&id, &rec.Identifier, &rec.SecretHash, &rec.Role, &rec.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("user by identifier: %w", err)
	}
	if id < 0 || id > math.MaxUint32 {
		return nil, fmt.Errorf("user by identifier: id %d out of range", id)
	}
	rec.ID = uint32(id)
	return &rec, nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.q.Ping(ctx)
}
