package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPError_Unwrap(t *testing.T) {
	expired := &HTTPError{Method: http.MethodGet, Path: "/api/orders", Status: http.StatusUnauthorized, SessionExpired: true}
	if !errors.Is(fmt.Errorf("list: %w", expired), ErrSessionExpired) {
		t.Fatalf("expired 401 must match ErrSessionExpired")
	}

	anon := &HTTPError{Method: http.MethodPost, Path: "/api/auth/login", Status: http.StatusUnauthorized}
	if errors.Is(anon, ErrSessionExpired) {
		t.Fatalf("a 401 that did not tear the session down must not match ErrSessionExpired")
	}
	if StatusCode(fmt.Errorf("wrapped: %w", anon)) != http.StatusUnauthorized {
		t.Fatalf("StatusCode lost the status through wrapping")
	}
	if StatusCode(errors.New("plain")) != 0 {
		t.Fatalf("StatusCode of a plain error must be 0")
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("stats: %w", &TransportError{Method: http.MethodGet, URL: "http://x/api", Err: cause})
	if !errors.Is(err, ErrNoResponse) || !errors.Is(err, cause) {
		t.Fatalf("transport error must match ErrNoResponse and its cause")
	}
}
