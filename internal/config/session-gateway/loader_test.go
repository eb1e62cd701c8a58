package session_gateway_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "session-gateway.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "refresh_token", cfg.Auth.CookieName)
	assert.Equal(t, "/", cfg.Auth.CookiePath)
	assert.Equal(t, "lax", cfg.Auth.CookieSameSite)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, "sessiongate", cfg.Auth.Audience)
	assert.NotContains(t, cfg.Store.SQLite.DSN, "mode=ro")
	assert.True(t, cfg.RateLimit.Enable)
	assert.Positive(t, cfg.RateLimit.LoginPerSecond)
	assert.False(t, cfg.Events.Enable)

	require.Len(t, cfg.Users, 2)
	assert.Equal(t, "admin", cfg.Users[0].Identifier)
	assert.Equal(t, uint32(1), cfg.Users[0].ID)
	assert.Equal(t, "superadministrator", cfg.Users[0].Role)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeYAML(t, `
auth:
  jwt_secret: from-file
  access_ttl: 30m
  refresh_ttl: 48h
  cookie_same_site: Strict
store:
  kind: sqlite
  sqlite:
    dsn: file:test.db
events:
  enable: true
  brokers: [kafka-1:9092, kafka-2:9092]
`)
	t.Setenv("AUTH_ACCESS_TTL", "15m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "strict", cfg.Auth.CookieSameSite)
	assert.Equal(t, StoreSQLite, cfg.Store.Kind)
	assert.Equal(t, "file:test.db", cfg.Store.SQLite.DSN)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Auth: Auth{
				JWTSecret:      "k",
				AccessTTL:      time.Hour,
				RefreshTTL:     2 * time.Hour,
				CookieSameSite: "lax",
			},
			Store: Store{Kind: StorePostgres},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"ok", func(*Config) {}, nil},
		{"no secret", func(c *Config) { c.Auth.JWTSecret = "  " }, ErrNoSecret},
		{"zero access ttl", func(c *Config) { c.Auth.AccessTTL = 0 }, ErrAccessTTL},
		{"refresh not longer", func(c *Config) { c.Auth.RefreshTTL = time.Hour }, ErrTTLOrder},
		{"bad same site", func(c *Config) { c.Auth.CookieSameSite = "sometimes" }, ErrBadSameSite},
		{"none without secure", func(c *Config) { c.Auth.CookieSameSite = "none" }, ErrInsecureNone},
		{"none with secure", func(c *Config) { c.Auth.CookieSameSite = "none"; c.Auth.CookieSecure = true }, nil},
		{"unknown store", func(c *Config) { c.Store.Kind = "redis" }, ErrUnknownStore},
		{"memory without users", func(c *Config) { c.Store.Kind = StoreMemory }, ErrNoUsers},
		{"events without brokers", func(c *Config) { c.Events.Enable = true }, ErrNoBrokers},
		{"rate limit zero rate", func(c *Config) { c.RateLimit = RateLimit{Enable: true, Burst: 10} }, ErrRateLimit},
		{"rate limit negative rate", func(c *Config) { c.RateLimit = RateLimit{Enable: true, LoginPerSecond: -1, Burst: 10} }, ErrRateLimit},
		{"rate limit zero burst", func(c *Config) { c.RateLimit = RateLimit{Enable: true, LoginPerSecond: 5} }, ErrRateLimit},
		{"rate limit disabled ignores values", func(c *Config) { c.RateLimit = RateLimit{Enable: false} }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := c.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}
