package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a transport failure. The set is closed: the session engine
// matches it exhaustively and anything unrecognized maps to KindServer.
type Kind uint8

const (
	// KindNetwork covers dial, TLS, and I/O failures before any response arrived.
	KindNetwork Kind = iota + 1
	// KindCanceled means the caller's context expired or was canceled.
	KindCanceled
	// KindUnauthorized is an HTTP 401, the sole token-expiry signal.
	KindUnauthorized
	// KindForbidden is an HTTP 403.
	KindForbidden
	// KindNotFound is an HTTP 404.
	KindNotFound
	// KindClient covers the remaining 4xx statuses.
	KindClient
	// KindServer covers 5xx and unrecognized statuses.
	KindServer
	// KindDecode means the response arrived but its body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindCanceled:
		return "canceled"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single error type produced at the transport boundary.
// Message carries the server-provided error text verbatim when the response
// body contained one.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	err        error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("httpx: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("httpx: %s (%d)", e.Kind, e.StatusCode)
	case e.err != nil:
		return fmt.Sprintf("httpx: %s: %v", e.Kind, e.err)
	default:
		return fmt.Sprintf("httpx: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

// ErrKind extracts the transport failure kind, or zero when err did not
// originate at this boundary.
func ErrKind(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 transport error.
func IsUnauthorized(err error) bool {
	return ErrKind(err) == KindUnauthorized
}

// ServerMessage returns the verbatim server error text, if any.
func ServerMessage(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Message
	}
	return ""
}

func statusKind(status int) Kind {
	switch {
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindClient
	default:
		return KindServer
	}
}

// errorBody is the error envelope the backend uses; drafts disagree on the
// field name so both are accepted.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}
