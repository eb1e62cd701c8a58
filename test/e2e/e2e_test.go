//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginData struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func call(t *testing.T, c *http.Client, method, url string, body any, token string) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, resp.StatusCode, env.Code)
	return resp, env
}

func TestSessionLifecycle(t *testing.T) {
	base := getenv("E2E_API_BASE", "http://localhost:8080")
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	_, env := call(t, c, http.MethodPost, base+"/api/auth/refresh", nil, "")
	require.Equal(t, 233, env.Code)
	require.Equal(t, "refresh token not found", env.Message)

	_, env = call(t, c, http.MethodPost, base+"/api/auth/login",
		map[string]string{"identifier": "admin", "secret": "wrong"}, "")
	require.Equal(t, 233, env.Code)

	_, env = call(t, c, http.MethodPost, base+"/api/auth/login",
		map[string]string{"identifier": "admin", "secret": "password123"}, "")
	require.Equal(t, 200, env.Code)
	var login loginData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.Equal(t, "superadministrator", login.Role)
	require.NotEmpty(t, login.AccessToken)

	_, env = call(t, c, http.MethodGet, base+"/api/auth/me", nil, login.AccessToken)
	require.Equal(t, 200, env.Code)
	var me struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	require.Equal(t, "superadministrator", me.Role)

	_, env = call(t, c, http.MethodPost, base+"/api/auth/refresh", nil, "")
	require.Equal(t, 200, env.Code)

	resp, env := call(t, c, http.MethodPost, base+"/api/auth/logout", nil, "")
	require.Equal(t, 200, env.Code)
	var cleared bool
	for _, ck := range resp.Cookies() {
		if ck.Name == "refresh_token" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)

	_, env = call(t, c, http.MethodPost, base+"/api/auth/refresh", nil, "")
	require.Equal(t, 233, env.Code)
	require.Equal(t, "refresh token not found", env.Message)
}
