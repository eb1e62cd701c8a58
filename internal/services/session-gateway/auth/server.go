package auth

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/sessiongate/internal/envelope"
	"github.com/NordCoder/sessiongate/internal/obs"
)

const (
	RouteLogin   = "/api/auth/login"
	RouteRefresh = "/api/auth/refresh"
	RouteLogout  = "/api/auth/logout"
	RouteMe      = "/api/auth/me"
)

type Server struct {
	log          *zap.Logger
	uc           *Usecase
	cookies      CookiePolicy
	limiter      *IPLimiter
	maxBodyBytes int64
	now          func() time.Time
}

type Opts struct {
	Logger       *zap.Logger
	Cookies      CookiePolicy
	Limiter      *IPLimiter // nil disables login rate limiting
	MaxBodyBytes int64
	Now          func() time.Time
}

func NewServer(uc *Usecase, o Opts) *Server {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		log:          obs.Component(log, "auth"),
		uc:           uc,
		cookies:      o.Cookies,
		limiter:      o.Limiter,
		maxBodyBytes: o.MaxBodyBytes,
		now:          now,
	}
}

// Register mounts the auth routes on mux, each measured under its own path.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("POST "+RouteLogin, obs.Instrument(RouteLogin, s.handle(s.Login)))
	mux.Handle("POST "+RouteRefresh, obs.Instrument(RouteRefresh, s.handle(s.Refresh)))
	mux.Handle("POST "+RouteLogout, obs.Instrument(RouteLogout, s.handle(s.Logout)))
	mux.Handle("GET "+RouteMe, obs.Instrument(RouteMe, s.RequireBearer(s.handle(s.Me))))
}

func (s *Server) handle(fn func(http.ResponseWriter, *http.Request) *envelope.Response) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.write(w, r, fn(w, r))
	})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, resp *envelope.Response) {
	if err := resp.Write(w); err != nil {
		obs.WithTrace(r.Context(), s.log).Error("write response", zap.Error(err))
	}
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) *envelope.Response {
	if s.limiter != nil && !s.limiter.Allow(clientIP(r)) {
		obs.AuthOutcome("login", "throttled")
		return envelope.New(envelope.BusinessError("too many attempts"))
	}

	req, err := decodeLogin(w, r, s.maxBodyBytes)
	if err != nil {
		obs.AuthOutcome("login", "bad_request")
		return envelope.New(envelope.BusinessError(err.Error()))
	}
	identifier, secret := req.credentials()

	rec, sess, err := s.uc.Login(r.Context(), identifier, secret)
	if err != nil {
		return s.mapErr(r, "login", err)
	}

	resp := envelope.New(envelope.Success(LoginData{
		ID:          rec.ID,
		Name:        rec.Identifier,
		Avatar:      rec.Avatar,
		Role:        rec.Role,
		AccessToken: sess.AccessToken,
	}, "login successful"))
	if err := resp.AddCookie(s.cookies.Set(sess.RefreshToken, s.now())); err != nil {
		obs.WithTrace(r.Context(), s.log).Error("attach refresh cookie", zap.Error(err))
		obs.AuthOutcome("login", "error")
		return envelope.New(envelope.FatalError(ErrTokenGeneration.Error()))
	}

	obs.AuthOutcome("login", "ok")
	obs.WithTrace(r.Context(), s.log).Info("login", zap.Uint32("subject_id", rec.ID))
	return resp
}

func (s *Server) Refresh(_ http.ResponseWriter, r *http.Request) *envelope.Response {
	access, cl, err := s.uc.Refresh(r.Context(), s.cookies.Read(r))
	if err != nil {
		return s.mapErr(r, "refresh", err)
	}
	obs.AuthOutcome("refresh", "ok")
	obs.WithTrace(r.Context(), s.log).Debug("refresh", zap.Uint32("subject_id", cl.SubjectID))
	return envelope.New(envelope.Success(AccessTokenData{AccessToken: access}, "token refreshed"))
}

// Logout never inspects the inbound cookie; it always answers with a
// clearing directive.
func (s *Server) Logout(_ http.ResponseWriter, r *http.Request) *envelope.Response {
	resp := envelope.New(envelope.SuccessNoData("logged out"))
	if err := resp.AddCookie(s.cookies.Clear()); err != nil {
		obs.WithTrace(r.Context(), s.log).Error("attach clearing cookie", zap.Error(err))
	}
	obs.AuthOutcome("logout", "ok")
	return resp
}

func (s *Server) Me(_ http.ResponseWriter, r *http.Request) *envelope.Response {
	cl, ok := ClaimsFromContext(r.Context())
	if !ok {
		return envelope.New(envelope.BusinessError("authorization required"))
	}
	rec, err := s.uc.Identity(r.Context(), cl)
	if err != nil {
		return s.mapErr(r, "me", err)
	}
	obs.AuthOutcome("me", "ok")
	return envelope.New(envelope.Success(IdentityData{
		ID:     rec.ID,
		Name:   rec.Identifier,
		Role:   rec.Role,
		Avatar: rec.Avatar,
	}, "authenticated"))
}

// mapErr turns a flow error into an envelope. Expected failures become
// business errors with fixed messages; anything else is fatal and the cause
// is logged but never returned.
func (s *Server) mapErr(r *http.Request, flow string, err error) *envelope.Response {
	log := obs.WithTrace(r.Context(), s.log)
	switch {
	case errors.Is(err, ErrCredentialsRequired):
		obs.AuthOutcome(flow, "bad_request")
		return envelope.New(envelope.BusinessError(ErrCredentialsRequired.Error()))
	case errors.Is(err, ErrInvalidCredentials):
		obs.AuthOutcome(flow, "rejected")
		log.Info("login rejected")
		return envelope.New(envelope.BusinessError(ErrInvalidCredentials.Error()))
	case errors.Is(err, ErrRefreshTokenMissing):
		obs.AuthOutcome(flow, "missing")
		return envelope.New(envelope.BusinessError(ErrRefreshTokenMissing.Error()))
	case errors.Is(err, ErrTokenInvalid):
		obs.AuthOutcome(flow, "rejected")
		log.Warn("refresh token rejected", zap.Error(err))
		return envelope.New(envelope.BusinessError(ErrTokenInvalid.Error()))
	case errors.Is(err, ErrUserNotFound):
		obs.AuthOutcome(flow, "rejected")
		log.Info("token subject not found", zap.Error(err))
		return envelope.New(envelope.BusinessError(ErrUserNotFound.Error()))
	case errors.Is(err, ErrTokenGeneration):
		obs.AuthOutcome(flow, "error")
		log.Error("token issuance failed", zap.String("flow", flow), zap.Error(err))
		if flow == "refresh" {
			return envelope.New(envelope.FatalError("token refresh failed"))
		}
		return envelope.New(envelope.FatalError(ErrTokenGeneration.Error()))
	default:
		obs.AuthOutcome(flow, "error")
		log.Error("auth flow failed", zap.String("flow", flow), zap.Error(err))
		return envelope.New(envelope.FatalError("internal error"))
	}
}
