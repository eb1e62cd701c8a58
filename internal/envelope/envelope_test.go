package envelope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenData struct {
	AccessToken string `json:"access_token"`
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	ok := Success(tokenData{AccessToken: "abc"}, "token refreshed")
	assert.Equal(t, CodeSuccess, ok.Code)
	assert.True(t, ok.IsSuccess())
	require.NotNil(t, ok.Data)
	assert.Equal(t, "abc", ok.Data.AccessToken)

	assert.Equal(t, uint16(233), BusinessError("invalid credentials").Code)
	assert.Equal(t, uint16(500), FatalError("token generation failed").Code)
	assert.Nil(t, SuccessNoData("logout successful").Data)
}

func TestWireForm_DataOmittedWhenAbsent(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(BusinessError("refresh token not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":233,"message":"refresh token not found"}`, string(b))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	_, has := raw["data"]
	assert.False(t, has)

	b, err = json.Marshal(Success(tokenData{AccessToken: "t"}, "ok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200,"message":"ok","data":{"access_token":"t"}}`, string(b))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := map[uint16]int{
		200:  200,
		233:  233,
		500:  500,
		0:    500,
		99:   500,
		150:  500,
		199:  500,
		599:  599,
		600:  500,
		1000: 500,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), "code %d", code)
	}
}

func TestResponse_WriteInformationalCodeOnRealServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = New(Envelope[Empty]{Code: 150, Message: "odd"}).Write(w)
	}))
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var got Envelope[Empty]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, uint16(150), got.Code)
	assert.Equal(t, "odd", got.Message)
}

func TestResponse_WriteSetsStatusCookiesAndBody(t *testing.T) {
	t.Parallel()

	resp := New(Success(tokenData{AccessToken: "t"}, "login successful"))
	require.NoError(t, resp.AddCookie(&http.Cookie{Name: "refresh_token", Value: "r", HttpOnly: true, Path: "/"}))

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Write(rec))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.JSONEq(t, `{"code":200,"message":"login successful","data":{"access_token":"t"}}`, rec.Body.String())
}

func TestResponse_BusinessErrorStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, New(BusinessError("invalid credentials")).Write(rec))
	assert.Equal(t, 233, rec.Code)
}

func TestResponse_InvalidCodeFallsBackTo500(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, New(Envelope[Empty]{Code: 42, Message: "odd"}).Write(rec))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":42,"message":"odd"}`, rec.Body.String())
}

func TestResponse_CookieAfterFinalize(t *testing.T) {
	t.Parallel()

	resp := New(SuccessNoData("logout successful"))
	require.NoError(t, resp.Write(httptest.NewRecorder()))

	err := resp.AddCookie(&http.Cookie{Name: "refresh_token", Value: ""})
	require.ErrorIs(t, err, ErrFinalized)
	require.ErrorIs(t, resp.Write(httptest.NewRecorder()), ErrFinalized)
}

func TestResponse_RejectsInvalidCookie(t *testing.T) {
	t.Parallel()

	resp := New(SuccessNoData("ok"))
	require.ErrorIs(t, resp.AddCookie(nil), ErrInvalidCookie)
	require.ErrorIs(t, resp.AddCookie(&http.Cookie{Name: "bad name", Value: "x"}), ErrInvalidCookie)
	assert.Empty(t, resp.Cookies())
}
