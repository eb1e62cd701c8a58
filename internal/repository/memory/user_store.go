package memory

import (
	"context"
	"fmt"
	"strings"

	domainauth "github.com/NordCoder/sessiongate/internal/domain/auth"
	"github.com/NordCoder/sessiongate/internal/domain/user"
)

var _ user.Store = (*UserStore)(nil)

// UserStore is built once and only read afterwards, so lookups need no lock.
type UserStore struct {
	byIdentifier map[string]user.Record
}

// NewUserStore hashes every seed secret with h. Identifiers must be unique
// and non-empty.
func NewUserStore(seeds []user.Seed, h domainauth.SecretHasher) (*UserStore, error) {
	m := make(map[string]user.Record, len(seeds))
	for i, s := range seeds {
		if strings.TrimSpace(s.Identifier) == "" {
			return nil, fmt.Errorf("seed %d: identifier is empty", i)
		}
		if _, dup := m[s.Identifier]; dup {
			return nil, fmt.Errorf("seed %d: duplicate identifier %q", i, s.Identifier)
		}
		hash, err := h.Hash(s.Secret)
		if err != nil {
			return nil, fmt.Errorf("seed %q: hash secret: %w", s.Identifier, err)
		}
		m[s.Identifier] = user.Record{
			ID:         s.ID,
			Identifier: s.Identifier,
			SecretHash: hash,
			Role:       s.Role,
			Avatar:     s.Avatar,
		}
	}
	return &UserStore{byIdentifier: m}, nil
}

func (s *UserStore) FindByIdentifier(_ context.Context, identifier string) (*user.Record, error) {
	rec, ok := s.byIdentifier[identifier]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &rec, nil
}

func (s *UserStore) Ping(context.Context) error { return nil }

func (s *UserStore) Len() int { return len(s.byIdentifier) }
