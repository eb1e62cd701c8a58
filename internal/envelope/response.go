package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrFinalized     = errors.New("envelope: response already finalized")
	ErrInvalidCookie = errors.New("envelope: invalid cookie")
)

// Response pairs an envelope with the cookie directives that travel with it.
// It is not safe for concurrent use; one Response belongs to one request.
type Response struct {
	code      uint16
	body      any
	cookies   []*http.Cookie
	finalized bool
}

func New[T any](e Envelope[T]) *Response {
	return &Response{code: e.Code, body: e}
}

func (r *Response) Code() uint16 { return r.code }

func (r *Response) Body() any { return r.body }

func (r *Response) Cookies() []*http.Cookie {
	out := make([]*http.Cookie, len(r.cookies))
	copy(out, r.cookies)
	return out
}

func (r *Response) AddCookie(c *http.Cookie) error {
	if r.finalized {
		return ErrFinalized
	}
	if c == nil {
		return ErrInvalidCookie
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCookie, err)
	}
	r.cookies = append(r.cookies, c)
	return nil
}

// Write finalizes the response: cookies first, then the status derived from
// the envelope code, then the JSON body.
func (r *Response) Write(w http.ResponseWriter) error {
	if r.finalized {
		return ErrFinalized
	}
	r.finalized = true

	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(HTTPStatus(r.code))
	if err := json.NewEncoder(w).Encode(r.body); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return nil
}

// HTTPStatus maps an envelope code to a wire status. Anything outside 200..599
// falls back to 500: net/http rejects codes above 999 and treats 1xx as
// informational, which would leave the real response as an implicit 200.
func HTTPStatus(code uint16) int {
	if code < 200 || code > 599 {
		return http.StatusInternalServerError
	}
	return int(code)
}
