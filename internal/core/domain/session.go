package domain

import "time"

// SessionState is the two-state session machine: anonymous or authenticated.
type SessionState string

const (
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)

// Session is the client's view of who is logged in.
type Session struct {
	State SessionState
	Token string
	User  *User

	// ExpiresAt comes from the token's exp claim when the token is a JWT.
	// Zero when unknown. Informational only.
	ExpiresAt time.Time
}

// AnonymousSession returns the logged-out session.
func AnonymousSession() Session {
	return Session{State: SessionAnonymous}
}

// Authenticated reports whether both token and user are present.
func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated && s.Token != "" && s.User != nil
}
