package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/NordCoder/sessiongate/internal/domain/auth"
	"github.com/NordCoder/sessiongate/internal/domain/session"
	"github.com/NordCoder/sessiongate/internal/domain/user"
	"github.com/NordCoder/sessiongate/internal/obs"
)

var (
	ErrCredentialsRequired = errors.New("credentials required")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRefreshTokenMissing = errors.New("refresh token not found")
	ErrTokenInvalid        = errors.New("token invalid or expired")
	ErrTokenGeneration     = errors.New("token generation failed")
	ErrUserNotFound        = errors.New("user not found")
)

type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Codecs pairs the codec for access tokens with the one for refresh tokens.
// They must reject each other's tokens.
type Codecs struct {
	Access  domainauth.TokenCodec
	Refresh domainauth.TokenCodec
}

// Usecase holds the login and refresh flows. It keeps no per-session state:
// both tokens are self-contained, and the refresh token is not rotated.
type Usecase struct {
	verifier *Verifier
	users    user.Store
	access   domainauth.TokenCodec
	refresh  domainauth.TokenCodec
	events   session.Emitter
	cfg      Config
}

func NewUseCase(v *Verifier, codecs Codecs, events session.Emitter, cfg Config) *Usecase {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if events == nil {
		events = session.NopEmitter{}
	}
	return &Usecase{
		verifier: v,
		users:    v.users,
		access:   codecs.Access,
		refresh:  codecs.Refresh,
		events:   events,
		cfg:      cfg,
	}
}

// Login verifies the credentials and issues an access/refresh pair.
// Empty input is rejected before the store is consulted.
func (u *Usecase) Login(ctx context.Context, identifier, secret string) (*user.Record, domainauth.Session, error) {
	if identifier == "" || secret == "" {
		return nil, domainauth.Session{}, ErrCredentialsRequired
	}

	rec, err := u.verifier.Verify(ctx, identifier, secret)
	if err != nil {
		return nil, domainauth.Session{}, err
	}
	if rec == nil {
		return nil, domainauth.Session{}, ErrInvalidCredentials
	}

	access, err := u.access.Issue(rec.ID, rec.Identifier, u.cfg.AccessTTL)
	if err != nil {
		return nil, domainauth.Session{}, fmt.Errorf("%w: access: %w", ErrTokenGeneration, err)
	}
	refresh, err := u.refresh.Issue(rec.ID, rec.Identifier, u.cfg.RefreshTTL)
	if err != nil {
		return nil, domainauth.Session{}, fmt.Errorf("%w: refresh: %w", ErrTokenGeneration, err)
	}

	u.emit(ctx, session.EventLogin, rec.ID, rec.Identifier)
	return rec, domainauth.Session{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token for the subject of a valid refresh token.
func (u *Usecase) Refresh(ctx context.Context, raw string) (string, *domainauth.TokenClaims, error) {
	if raw == "" {
		return "", nil, ErrRefreshTokenMissing
	}
	cl, err := u.refresh.Validate(raw)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	access, err := u.access.Issue(cl.SubjectID, cl.SubjectName, u.cfg.AccessTTL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}

	u.emit(ctx, session.EventRefresh, cl.SubjectID, cl.SubjectName)
	return access, cl, nil
}

// ParseAccess accepts access tokens only. A refresh token is rejected even
// though it is signed with the same key.
func (u *Usecase) ParseAccess(token string) (*domainauth.TokenClaims, error) {
	cl, err := u.access.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	return cl, nil
}

// Identity loads the current record of the token subject. A record whose id no
// longer matches the token is treated as missing.
func (u *Usecase) Identity(ctx context.Context, cl *domainauth.TokenClaims) (*user.Record, error) {
	rec, err := u.users.FindByIdentifier(ctx, cl.SubjectName)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	case rec.ID != cl.SubjectID:
		return nil, ErrUserNotFound
	}
	return rec, nil
}

func (u *Usecase) emit(ctx context.Context, t session.EventType, id uint32, name string) {
	rid, _ := obs.RequestIDFromContext(ctx)
	u.events.Emit(ctx, session.Event{
		Type:        t,
		SubjectID:   id,
		SubjectName: name,
		RequestID:   rid,
		OccurredAt:  u.cfg.Now(),
	})
}
