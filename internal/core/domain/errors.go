package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrKeyNotFound = errors.New("storage key not found")
var ErrInvalidSession = errors.New("invalid session")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidLoginResponse = errors.New("invalid response from server")
var ErrSessionExpired = errors.New("session expired")
var ErrNoResponse = errors.New("no response from server")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidInput = errors.New("invalid input")
var ErrResponseTooLarge = errors.New("response body too large")

// HTTPError is returned for any non-2xx response. Body holds at most the
// first few KiB of the response for diagnostics.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   []byte

	// SessionExpired is set when this response tore the session down.
	SessionExpired bool
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *HTTPError) Unwrap() error {
	if e.SessionExpired {
		return ErrSessionExpired
	}
	return nil
}

// TransportError means the request never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrNoResponse, e.Err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
