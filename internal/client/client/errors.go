package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrSessionClosed is returned by a refresh whose credentials were
	// cleared (logout, or another request's failed refresh) before it could
	// complete.
	ErrSessionClosed = errors.New("session closed during refresh")

	ErrResponseTooLarge = errors.New("response body too large")
)

// NetworkError means no response reached the client.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// HTTPError is a non-2xx response, or a 2xx response whose body could not be
// decoded (Err is set then).
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   []byte
	Err    error
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	if d := e.Detail(); d != "" {
		return msg + ": " + d
	}
	return msg
}

func (e *HTTPError) Unwrap() error { return e.Err }

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Detail returns the backend's "detail" message, if the body carries one.
func (e *HTTPError) Detail() string {
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(e.Body, &body) != nil {
		return ""
	}
	return body.Detail
}

// AuthError is a login, registration or refresh rejected by the backend.
type AuthError struct {
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Detail
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }

// ValidationError carries the backend's per-field validation messages.
type ValidationError struct {
	Fields map[string][]string
	Err    error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FieldErrors extracts a DRF-style field error map from body. Values may be a
// string or a list of strings; "detail" is not a field. ok is false when no
// field errors are present.
func FieldErrors(body []byte) (map[string][]string, bool) {
	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		return nil, false
	}

	fields := make(map[string][]string, len(raw))
	for k, v := range raw {
		if k == "detail" {
			continue
		}
		var list []string
		if json.Unmarshal(v, &list) == nil && len(list) > 0 {
			fields[k] = list
			continue
		}
		var one string
		if json.Unmarshal(v, &one) == nil && one != "" {
			fields[k] = []string{one}
		}
	}
	return fields, len(fields) > 0
}

// authError maps a failed login/registration call. Registration passes
// withFields so per-field failures become a *ValidationError.
func authError(err error, withFields bool) error {
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Err != nil || herr.Status >= http.StatusInternalServerError {
		return err
	}

	fields, ok := FieldErrors(herr.Body)
	if ok && withFields && herr.Status == http.StatusBadRequest {
		return &ValidationError{Fields: fields, Err: herr}
	}

	detail := herr.Detail()
	if detail == "" && ok {
		detail = (&ValidationError{Fields: fields}).Error()
	}
	return &AuthError{Detail: detail, Err: herr}
}

// validationError turns a 400 carrying field errors into a *ValidationError.
func validationError(err error) error {
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Status != http.StatusBadRequest {
		return err
	}
	if fields, ok := FieldErrors(herr.Body); ok {
		return &ValidationError{Fields: fields, Err: herr}
	}
	return err
}
