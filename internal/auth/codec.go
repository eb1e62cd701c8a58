package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/NordCoder/sessiongate/internal/domain/auth"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrExpired          = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrSigning          = errors.New("token signing failed")

	errMissingSecret = errors.New("signing secret is not configured")
)

var _ domainauth.TokenCodec = (*Codec)(nil)

type claims struct {
	UID  uint32 `json:"uid"`
	Name string `json:"name"`
	Typ  string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// CodecConfig configures a Codec. When TokenType is set the codec stamps it
// into every token it issues and rejects tokens carrying any other type, so
// access and refresh codecs sharing a secret cannot accept each other's tokens.
type CodecConfig struct {
	Secret    []byte
	Issuer    string
	Audience  string
	TokenType string
	Now       func() time.Time
}

// Codec signs and verifies HS256 tokens. It holds no mutable state and is
// safe for concurrent use.
type Codec struct {
	secret    []byte
	issuer    string
	audience  string
	tokenType string
	now       func() time.Time
	parser    *jwt.Parser
}

func NewCodec(cfg CodecConfig) *Codec {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Codec{
		secret:    secret,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		tokenType: cfg.TokenType,
		now:       cfg.Now,
		parser:    jwt.NewParser(opts...),
	}
}

func (c *Codec) Issue(subjectID uint32, subjectName string, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		return "", fmt.Errorf("%w: lifetime must be positive, got %s", ErrSigning, lifetime)
	}
	if len(c.secret) == 0 {
		return "", fmt.Errorf("%w: %w", ErrSigning, errMissingSecret)
	}

	now := c.now().UTC()
	cl := claims{
		UID:  subjectID,
		Name: subjectName,
		Typ:  c.tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}
	if c.audience != "" {
		cl.Audience = jwt.ClaimStrings{c.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return signed, nil
}

// Validate returns ErrExpired only when the signature checks out, any other
// failure is reported as ErrInvalidSignature. Both wrap ErrInvalidToken.
func (c *Codec) Validate(token string) (*domainauth.TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(c.secret) == 0 {
		return nil, ErrInvalidSignature
	}

	var cl claims
	_, err := c.parser.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	default:
		return nil, ErrInvalidSignature
	}
	if c.tokenType != "" && cl.Typ != c.tokenType {
		return nil, ErrInvalidSignature
	}

	return &domainauth.TokenClaims{
		SubjectID:   cl.UID,
		SubjectName: cl.Name,
		IssuedAt:    cl.IssuedAt.Time.UTC(),
		ExpiresAt:   cl.ExpiresAt.Time.UTC(),
	}, nil
}
