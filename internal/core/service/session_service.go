package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

// SessionService is the single owner of the "token" and "user" storage keys.
// Mutations are serialized; reads always go to the store so a Login is
// visible to the very next CurrentToken.
type SessionService struct {
	store    ports.KeyValueStore
	validate *inputValidator
	log      zerolog.Logger
	mu       sync.Mutex
}

var _ ports.SessionManager = (*SessionService)(nil)

func NewSessionService(store ports.KeyValueStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:    store,
		validate: newInputValidator(),
		log:      log.With().Str("component", "session").Logger(),
	}
}

// Restore reads the persisted pair. A token without a parseable, valid user
// record is never trusted.
func (s *SessionService) Restore(ctx context.Context) domain.Session {
	token, err := s.store.Get(ctx, ports.KeyToken)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("read token failed, treating session as anonymous")
		}
		return domain.AnonymousSession()
	}
	if token == "" {
		return domain.AnonymousSession()
	}

	raw, err := s.store.Get(ctx, ports.KeyUser)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Msg("token present without user record, treating session as anonymous")
		} else {
			s.log.Warn().Err(err).Msg("read user failed, treating session as anonymous")
		}
		return domain.AnonymousSession()
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn().Err(err).Msg("user record unparseable, treating session as anonymous")
		return domain.AnonymousSession()
	}
	if err := s.validate.Struct(user); err != nil {
		s.log.Warn().Err(err).Msg("user record incomplete, treating session as anonymous")
		return domain.AnonymousSession()
	}

	return domain.Session{
		State:     domain.SessionAuthenticated,
		Token:     token,
		User:      &user,
		ExpiresAt: tokenExpiry(token),
	}
}

// Login persists token and user. The user is written first and rolled back
// if the token write fails, so no token is ever left without its principal.
// A previous session is overwritten.
func (s *SessionService) Login(ctx context.Context, token string, user domain.User) (domain.Session, error) {
	if token == "" {
		return domain.AnonymousSession(), fmt.Errorf("login: %w: empty token", domain.ErrInvalidSession)
	}
	if err := s.validate.Struct(user); err != nil {
		return domain.AnonymousSession(), fmt.Errorf("login: %w: %w", domain.ErrInvalidSession, err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("login: encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop any previous token first: between the two writes below the store
	// must never pair the old token with the new user.
	if err := s.store.Remove(ctx, ports.KeyToken); err != nil {
		return domain.AnonymousSession(), fmt.Errorf("login: clear token: %w", err)
	}
	if err := s.store.Set(ctx, ports.KeyUser, string(raw)); err != nil {
		return domain.AnonymousSession(), fmt.Errorf("login: persist user: %w", err)
	}
	if err := s.store.Set(ctx, ports.KeyToken, token); err != nil {
		if rbErr := s.store.Remove(ctx, ports.KeyUser); rbErr != nil {
			s.log.Error().Err(rbErr).Msg("rollback of user record failed")
		}
		return domain.AnonymousSession(), fmt.Errorf("login: persist token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("session established")

	return domain.Session{
		State:     domain.SessionAuthenticated,
		Token:     token,
		User:      &user,
		ExpiresAt: tokenExpiry(token),
	}, nil
}

// Logout clears both keys. Calling it while anonymous is a no-op success.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Msg("session cleared")
	return nil
}

// Expire is the teardown triggered by a 401 from the backend.
func (s *SessionService) Expire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clear(ctx); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	s.log.Warn().Msg("session expired, credentials cleared")
	return nil
}

// CurrentToken returns the bearer token while authenticated. It never fails:
// storage errors are logged and reported as "no token".
func (s *SessionService) CurrentToken(ctx context.Context) (string, bool) {
	sess := s.Restore(ctx)
	if !sess.Authenticated() {
		return "", false
	}
	return sess.Token, true
}

// clear attempts both removals even if the first fails.
func (s *SessionService) clear(ctx context.Context) error {
	return errors.Join(
		s.store.Remove(ctx, ports.KeyToken),
		s.store.Remove(ctx, ports.KeyUser),
	)
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client cannot verify it and only uses it for display.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
