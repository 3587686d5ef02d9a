package journal

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error kinds. Every error returned by the client unwraps to exactly one of
// these, so callers branch with errors.Is.
var (
	// ErrValidation is returned by local checks before any request is sent,
	// and for 400 and 422 answers from the API. Use errors.As with
	// *APIError to tell the two apart: local failures are ValidationErrors.
	ErrValidation = errors.New("journal: validation failed")
	// ErrAuth means the credentials were rejected at login (401 or 400).
	ErrAuth = errors.New("journal: invalid credentials")
	// ErrUnauthenticated means the API answered 401 outside of login.
	ErrUnauthenticated = errors.New("journal: unauthenticated")
	// ErrNotFound means the API answered 404.
	ErrNotFound = errors.New("journal: not found")
	// ErrServer covers 5xx answers, unexpected statuses and malformed envelopes.
	ErrServer = errors.New("journal: server error")
	// ErrNetwork means no response was received.
	ErrNetwork = errors.New("journal: network error")
	// ErrLoginThrottled is returned when too many logins failed recently.
	ErrLoginThrottled = errors.New("journal: too many login attempts")
)

// APIError describes a failed request to the remote API.
type APIError struct {
	Op      string // e.g. "GET /post/get/my-post"
	Status  int    // 0 when no response was received
	Message string // server-provided message, if any
	Kind    error  // one of the Err* sentinels
	Err     error  // underlying cause, if any
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	switch {
	case e.Message != "":
		b.WriteString(": " + e.Message)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	default:
		b.WriteString(": " + e.Kind.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *APIError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServer
	}
}

// ValidationErrors maps a field name to the reason it was rejected.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "journal: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

// orNil returns nil for an empty set so callers can return it directly.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// UserMessage picks the text to show in a notification for err: the server
// message when one was sent, the first validation message for local
// failures, and fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return verrs[fields[0]]
	}
	if errors.Is(err, ErrLoginThrottled) {
		return "Too many login attempts. Try again later."
	}
	return fallback
}
