package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an AuthError.
type Kind string

const (
	KindNetwork        Kind = "network"
	KindAuthentication Kind = "authentication"
	KindConflict       Kind = "conflict"
	KindValidation     Kind = "validation"
	KindServer         Kind = "server"
)

// Sentinels for errors.Is matching on the kind of an AuthError.
var (
	ErrNetwork        = errors.New("backend unreachable")
	ErrAuthentication = errors.New("authentication failed")
	ErrConflict       = errors.New("account already exists")
	ErrValidation     = errors.New("invalid request")
	ErrServer         = errors.New("backend error")
)

// AuthError is every failure returned by Client.Login and Client.Register.
// Status is zero when the request never got a response. RequestID is the
// X-Request-ID sent with the request, empty for client-side checks.
type AuthError struct {
	Kind      Kind
	Status    int
	Message   string
	Fields    map[string]string
	RequestID string
	Err       error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + e.Fields[k]
		}
		sb.WriteString(" [")
		sb.WriteString(strings.Join(parts, "; "))
		sb.WriteString("]")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *AuthError) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(k Kind) error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindAuthentication:
		return ErrAuthentication
	case KindConflict:
		return ErrConflict
	case KindValidation:
		return ErrValidation
	default:
		return ErrServer
	}
}

// IsConflict reports whether err is a 409 from the register endpoint.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// RequestID returns the request id carried by err, or "".
func RequestID(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.RequestID
	}
	return ""
}

// endpoint distinguishes how the same status is classified on each route.
type endpoint int

const (
	endpointLogin endpoint = iota
	endpointRegister
)

func classify(ep endpoint, status int, body errorBody) Kind {
	switch {
	case status >= 500:
		return KindServer
	case ep == endpointLogin && status >= 400:
		return KindAuthentication
	case ep == endpointRegister && status == http.StatusConflict:
		return KindConflict
	case ep == endpointRegister && (status >= 400 || len(body.Errors) > 0):
		return KindValidation
	default:
		return KindServer
	}
}
