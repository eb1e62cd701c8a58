package session_gateway_config

import (
	"time"

	"github.com/NordCoder/sessiongate/internal/domain/user"
	"github.com/NordCoder/sessiongate/internal/obs"
	pg "github.com/NordCoder/sessiongate/internal/repository/postgres"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Auth struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	AccessTTL      time.Duration `mapstructure:"access_ttl"`
	RefreshTTL     time.Duration `mapstructure:"refresh_ttl"`
	HashCost       int           `mapstructure:"hash_cost"`
	CookieName     string        `mapstructure:"cookie_name"`
	CookieDomain   string        `mapstructure:"cookie_domain"`
	CookiePath     string        `mapstructure:"cookie_path"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	CookieSameSite string        `mapstructure:"cookie_same_site"`
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type SQLite struct {
	DSN          string        `mapstructure:"dsn"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type Store struct {
	Kind     string    `mapstructure:"kind"`
	Postgres pg.Config `mapstructure:"postgres"`
	SQLite   SQLite    `mapstructure:"sqlite"`
}

type Events struct {
	Enable         bool          `mapstructure:"enable"`
	Brokers        []string      `mapstructure:"brokers"`
	Topic          string        `mapstructure:"topic"`
	Workers        int           `mapstructure:"workers"`
	Buffer         int           `mapstructure:"buffer"`
	Attempts       int           `mapstructure:"attempts"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type RateLimit struct {
	Enable         bool    `mapstructure:"enable"`
	LoginPerSecond float64 `mapstructure:"login_per_second"`
	Burst          int     `mapstructure:"burst"`
}

type Config struct {
	App       App         `mapstructure:"app"`
	Server    Server      `mapstructure:"server"`
	OTEL      OTEL        `mapstructure:"otel"`
	Log       Log         `mapstructure:"log"`
	Auth      Auth        `mapstructure:"auth"`
	Store     Store       `mapstructure:"store"`
	Events    Events      `mapstructure:"events"`
	RateLimit RateLimit   `mapstructure:"rate_limit"`
	Users     []user.Seed `mapstructure:"users"`
}

func (c *Config) LogConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
