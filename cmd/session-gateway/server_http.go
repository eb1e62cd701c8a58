package main

import (
	"fmt"
	"net/http"
	"time"

	tokens "github.com/NordCoder/sessiongate/internal/auth"
	config "github.com/NordCoder/sessiongate/internal/config/session-gateway"
	"github.com/NordCoder/sessiongate/internal/domain/session"
	"github.com/NordCoder/sessiongate/internal/domain/user"
	"github.com/NordCoder/sessiongate/internal/obs"
	authsvc "github.com/NordCoder/sessiongate/internal/services/session-gateway/auth"
	"go.uber.org/zap"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, users user.Store, events session.Emitter) (*http.Server, error) {
	sameSite, err := authsvc.ParseSameSite(cfg.Auth.CookieSameSite)
	if err != nil {
		return nil, err
	}

	codec := func(typ string) *tokens.Codec {
		return tokens.NewCodec(tokens.CodecConfig{
			Secret:    []byte(cfg.Auth.JWTSecret),
			Issuer:    cfg.Auth.Issuer,
			Audience:  cfg.Auth.Audience,
			TokenType: typ,
		})
	}
	verifier, err := authsvc.NewVerifier(users, tokens.NewBcryptHasher(cfg.Auth.HashCost))
	if err != nil {
		return nil, fmt.Errorf("verifier: %w", err)
	}
	codecs := authsvc.Codecs{Access: codec("access"), Refresh: codec("refresh")}
	uc := authsvc.NewUseCase(verifier, codecs, events, authsvc.Config{
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})

	var limiter *authsvc.IPLimiter
	if cfg.RateLimit.Enable {
		limiter = authsvc.NewIPLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.Burst)
	}

	srv := authsvc.NewServer(uc, authsvc.Opts{
		Logger: logger,
		Cookies: authsvc.CookiePolicy{
			Name:     cfg.Auth.CookieName,
			Domain:   cfg.Auth.CookieDomain,
			Path:     cfg.Auth.CookiePath,
			Secure:   cfg.Auth.CookieSecure,
			SameSite: sameSite,
			TTL:      cfg.Auth.RefreshTTL,
		},
		Limiter:      limiter,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	root := http.NewServeMux()
	srv.Register(root)
	root.Handle("GET /metrics", obs.MetricsHandler())
	root.Handle("GET /healthz", obs.HealthHandler(users.Ping))

	handler := obs.TraceHTTP(obs.RequestID(obs.AccessLog(logger)(root)), "session-gateway")

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}

// startMetricsServer exposes /metrics and /healthz on a separate listener.
func startMetricsServer(cfg *config.Config, users user.Store, logger *zap.Logger) *http.Server {
	return obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, users.Ping, logger)
}
