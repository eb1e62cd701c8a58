package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

var errBadBody = errors.New("invalid request body")

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`

	UsernameEmail string `json:"username_email"`
	Password      string `json:"password"`
}

func (r loginRequest) credentials() (string, string) {
	id, secret := r.Identifier, r.Secret
	if id == "" {
		id = r.UsernameEmail
	}
	if secret == "" {
		secret = r.Password
	}
	return id, secret
}

type LoginData struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

type AccessTokenData struct {
	AccessToken string `json:"access_token"`
}

type IdentityData struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// decodeLogin reads at most limit bytes. An empty body decodes to empty
// credentials so it is reported the same way as blank fields.
func decodeLogin(w http.ResponseWriter, r *http.Request, limit int64) (loginRequest, error) {
	var req loginRequest
	if r.Body == nil {
		return req, nil
	}
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return loginRequest{}, errBadBody
	}
	return req, nil
}

func bearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}
