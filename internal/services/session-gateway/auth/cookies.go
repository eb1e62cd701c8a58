package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CookiePolicy describes the refresh-token cookie. The cookie is always
// HttpOnly; the token never reaches script-visible storage.
type CookiePolicy struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func (p CookiePolicy) Set(raw string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Value:    raw,
		Path:     p.path(),
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
		MaxAge:   int(p.TTL.Seconds()),
		Expires:  now.Add(p.TTL).UTC(),
	}
}

// Clear expires the cookie immediately.
func (p CookiePolicy) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     p.path(),
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	}
}

func (p CookiePolicy) Read(r *http.Request) string {
	c, err := r.Cookie(p.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (p CookiePolicy) path() string {
	if p.Path == "" {
		return "/"
	}
	return p.Path
}

func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown same_site %q", s)
	}
}
