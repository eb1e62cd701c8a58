package auth

import (
	"context"
	"net/http"

	domainauth "github.com/NordCoder/sessiongate/internal/domain/auth"
	"github.com/NordCoder/sessiongate/internal/envelope"
	"github.com/NordCoder/sessiongate/internal/obs"
)

type ctxKey int

const claimsKey ctxKey = 1

func ClaimsFromContext(ctx context.Context) (*domainauth.TokenClaims, bool) {
	cl, ok := ctx.Value(claimsKey).(*domainauth.TokenClaims)
	return cl, ok && cl != nil
}

// RequireBearer admits requests carrying a valid access token and stores its
// claims in the request context. Rejections are business-error envelopes.
func (s *Server) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			obs.AuthOutcome("bearer", "missing")
			s.write(w, r, envelope.New(envelope.BusinessError("authorization required")))
			return
		}
		cl, err := s.uc.ParseAccess(token)
		if err != nil {
			obs.AuthOutcome("bearer", "invalid")
			s.write(w, r, envelope.New(envelope.BusinessError(ErrTokenInvalid.Error())))
			return
		}
		obs.AuthOutcome("bearer", "ok")
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, cl)))
	})
}
