package auth

import (
	"context"
	"errors"
	"fmt"

	domainauth "github.com/NordCoder/sessiongate/internal/domain/auth"
	"github.com/NordCoder/sessiongate/internal/domain/user"
)

// Verifier checks a login attempt against the user store. An unknown
// identifier still costs one hash comparison so response timing does not
// reveal which identifiers exist.
type Verifier struct {
	users  user.Store
	hasher domainauth.SecretHasher
	dummy  string
}

func NewVerifier(users user.Store, hasher domainauth.SecretHasher) (*Verifier, error) {
	dummy, err := hasher.Hash("sessiongate-unknown-identifier")
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &Verifier{users: users, hasher: hasher, dummy: dummy}, nil
}

// Verify returns the matching record, or nil when the identifier is unknown
// or the secret does not match. An error means the store itself failed.
func (v *Verifier) Verify(ctx context.Context, identifier, secret string) (*user.Record, error) {
	rec, err := v.users.FindByIdentifier(ctx, identifier)
	switch {
	case errors.Is(err, user.ErrNotFound):
		v.hasher.Compare(v.dummy, secret)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !v.hasher.Compare(rec.SecretHash, secret) {
		return nil, nil
	}
	return rec, nil
}
