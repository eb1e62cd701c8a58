package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	tokens "github.com/NordCoder/sessiongate/internal/auth"
	domainauth "github.com/NordCoder/sessiongate/internal/domain/auth"
	"github.com/NordCoder/sessiongate/internal/domain/session"
	"github.com/NordCoder/sessiongate/internal/domain/user"
	"github.com/NordCoder/sessiongate/internal/repository/memory"
)

const (
	testAccessTTL  = 60 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

var testSeeds = []user.Seed{
	{ID: 1, Identifier: "admin", Secret: "password123", Role: "superadministrator"},
	{ID: 2, Identifier: "user", Secret: "password456", Role: "user", Avatar: "/a/2.png"},
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type countingStore struct {
	user.Store
	calls atomic.Int32
	err   error
}

func (s *countingStore) FindByIdentifier(ctx context.Context, identifier string) (*user.Record, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.FindByIdentifier(ctx, identifier)
}

type failingCodec struct {
	domainauth.TokenCodec
}

func (failingCodec) Issue(uint32, string, time.Duration) (string, error) {
	return "", tokens.ErrSigning
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []session.Event
}

func (e *recordingEmitter) Emit(_ context.Context, ev session.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *recordingEmitter) got() []session.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]session.Event(nil), e.events...)
}

type fixture struct {
	clock        *clock
	store        *countingStore
	verifier     *Verifier
	accessCodec  *tokens.Codec
	refreshCodec *tokens.Codec
	events       *recordingEmitter
	uc           *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hasher := tokens.NewBcryptHasher(bcrypt.MinCost)
	mem, err := memory.NewUserStore(testSeeds, hasher)
	require.NoError(t, err)

	f := &fixture{
		clock:  newClock(),
		store:  &countingStore{Store: mem},
		events: &recordingEmitter{},
	}
	f.accessCodec = newTestCodec(f.clock, "access")
	f.refreshCodec = newTestCodec(f.clock, "refresh")
	f.verifier, err = NewVerifier(f.store, hasher)
	require.NoError(t, err)
	f.uc = NewUseCase(f.verifier, Codecs{Access: f.accessCodec, Refresh: f.refreshCodec}, f.events, Config{
		AccessTTL:  testAccessTTL,
		RefreshTTL: testRefreshTTL,
		Now:        f.clock.Now,
	})
	return f
}

// usecaseWith builds a usecase over the fixture store with other codecs.
func (f *fixture) usecaseWith(codecs Codecs) *Usecase {
	return NewUseCase(f.verifier, codecs, f.events, Config{
		AccessTTL:  testAccessTTL,
		RefreshTTL: testRefreshTTL,
		Now:        f.clock.Now,
	})
}

func newTestCodec(c *clock, typ string) *tokens.Codec {
	return tokens.NewCodec(tokens.CodecConfig{
		Secret:    []byte("test-secret"),
		Issuer:    "sessiongate-test",
		Audience:  "sessiongate-test",
		TokenType: typ,
		Now:       c.Now,
	})
}

var errStoreDown = errors.New("store down")
