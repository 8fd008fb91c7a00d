package ucerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ConflictPayload is the body of an HTTP 409 response. When Identical is
// true the server found an existing resource whose definition matches the
// one being created, and ID is that resource's ID.
type ConflictPayload struct {
	Error     string    `json:"error"`
	ID        uuid.UUID `json:"id"`
	Identical bool      `json:"identical"`
}

// Error is the error type returned for any non-2xx API response.
type Error struct {
	// Message is the server-provided error message, or a synthesized
	// "HTTP <status> - <body>" string when the response was not JSON.
	Message string

	// StatusCode is the HTTP status code of the failed response.
	StatusCode int

	// RequestID identifies the failed request for support correlation.
	// Taken from the response body's request_id field, falling back to
	// the X-Request-Id header. May be empty.
	RequestID string

	// Conflict holds the parsed 409 conflict payload, if any.
	Conflict *ConflictPayload
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " [request %s]", e.RequestID)
	}
	return b.String()
}

// errorBody is the JSON envelope the service wraps errors in. The error
// field is a plain string for most failures and a ConflictPayload object
// for 409 responses.
type errorBody struct {
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"request_id"`
}

// FromResponse builds an *Error from a failed HTTP response whose body
// has already been read. Non-JSON responses keep the raw body text in
// the message so nothing the server said is lost.
func FromResponse(resp *http.Response, body []byte) *Error {
	e := &Error{
		Message:    "unspecified error",
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	if !isJSON(resp) {
		e.Message = fmt.Sprintf("HTTP %d - %s", resp.StatusCode, string(body))
		return e
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		e.Message = fmt.Sprintf("HTTP %d - %s", resp.StatusCode, string(body))
		return e
	}
	if eb.RequestID != "" {
		e.RequestID = eb.RequestID
	}

	var msg string
	if err := json.Unmarshal(eb.Error, &msg); err == nil {
		e.Message = msg
		return e
	}

	var conflict ConflictPayload
	if err := json.Unmarshal(eb.Error, &conflict); err == nil {
		e.Conflict = &conflict
		if conflict.Error != "" {
			e.Message = conflict.Error
		}
	}
	return e
}

func isJSON(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	return ct == "application/json" || strings.HasPrefix(ct, "application/json;")
}

// IsNotFound reports whether err is an API error with HTTP status 404.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is an API error with HTTP status 409.
func IsConflict(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusConflict
}

// IdenticalID extracts the existing resource's ID from a 409 response
// that flagged the conflicting resource as identical. The second return
// is false for any other error.
func IdenticalID(err error) (uuid.UUID, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return uuid.Nil, false
	}
	if e.StatusCode != http.StatusConflict || e.Conflict == nil || !e.Conflict.Identical {
		return uuid.Nil, false
	}
	return e.Conflict.ID, true
}

// ConfigError reports a missing required environment variable. It is
// raised before any network call is made.
type ConfigError struct {
	Name string
	Desc string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing environment variable %q: UserClouds %s", e.Name, e.Desc)
}
