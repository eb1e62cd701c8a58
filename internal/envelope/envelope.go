// Package envelope implements the uniform {code, message, data?} response
// shape and the transport stage that turns it into an HTTP response.
package envelope

const (
	CodeSuccess       uint16 = 200
	CodeBusinessError uint16 = 233
	CodeFatalError    uint16 = 500
)

// Empty is the payload type of envelopes that never carry data.
type Empty struct{}

// Envelope is built once per request. A nil Data is omitted from the wire
// form entirely.
type Envelope[T any] struct {
	Code    uint16 `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

func Success[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Code: CodeSuccess, Message: message, Data: &data}
}

// SuccessNoData is a success envelope without a payload.
func SuccessNoData(message string) Envelope[Empty] {
	return Envelope[Empty]{Code: CodeSuccess, Message: message}
}

func BusinessError(message string) Envelope[Empty] {
	return Envelope[Empty]{Code: CodeBusinessError, Message: message}
}

func FatalError(message string) Envelope[Empty] {
	return Envelope[Empty]{Code: CodeFatalError, Message: message}
}

func (e Envelope[T]) IsSuccess() bool { return e.Code == CodeSuccess }
