package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx answer from the backend. Body is kept so callers
// can surface the server's own message.
type HTTPError struct {
	Action     Action
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if msg := e.Field("error"); msg != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Action, e.StatusCode, msg)
	}
	return fmt.Sprintf("backend %s: status %d", e.Action, e.StatusCode)
}

// Unauthorized reports 401 and 403 answers.
func (e *HTTPError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Field returns a top-level string field of the JSON body, or "".
func (e *HTTPError) Field(name string) string {
	var body map[string]any
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	s, _ := body[name].(string)
	return s
}

// Message returns the first non-empty body field among fields, or fallback
// when err is not an HTTPError or none of the fields is set.
func Message(err error, fallback string, fields ...string) string {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return fallback
	}
	for _, f := range fields {
		if msg := httpErr.Field(f); msg != "" {
			return msg
		}
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401/403 backend answer.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Unauthorized()
}
