package ports

import (
	"context"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// TokenSource hands the gateway the current bearer token.
type TokenSource interface {
	CurrentToken(ctx context.Context) (string, bool)
}

// SessionManager owns the persisted token/user pair.
type SessionManager interface {
	TokenSource
	Restore(ctx context.Context) domain.Session
	Login(ctx context.Context, token string, user domain.User) (domain.Session, error)
	Logout(ctx context.Context) error
	Expire(ctx context.Context) error
}

// Navigator moves the operator to the login screen.
type Navigator interface {
	ToLogin(ctx context.Context)
}
