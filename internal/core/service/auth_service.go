package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

// AuthService implements login against the backend and the client-side
// role gate.
type AuthService struct {
	gateway  ports.Gateway
	sessions ports.SessionManager
	validate *inputValidator
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(gateway ports.Gateway, sessions ports.SessionManager, log zerolog.Logger) *AuthService {
	return &AuthService{
		gateway:  gateway,
		sessions: sessions,
		validate: newInputValidator(),
		log:      log.With().Str("component", "auth").Logger(),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// Login exchanges credentials for a token and establishes the session.
// A rejected login has no session side effect.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	req := loginRequest{Email: email, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return domain.AnonymousSession(), fmt.Errorf("login: %w", err)
	}

	resp, err := s.gateway.Send(ctx, ports.Request{
		Method:    http.MethodPost,
		Path:      "/api/auth/login",
		Body:      req,
		Anonymous: true,
	})
	if err != nil {
		switch domain.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			s.log.Info().Str("email", email).Msg("login rejected")
			return domain.AnonymousSession(), fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		return domain.AnonymousSession(), fmt.Errorf("login: %w", err)
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil {
		return domain.AnonymousSession(), fmt.Errorf("login: %w: %w", domain.ErrInvalidLoginResponse, err)
	}
	if body.AccessToken == "" {
		return domain.AnonymousSession(), fmt.Errorf("login: %w: missing access_token", domain.ErrInvalidLoginResponse)
	}

	sess, err := s.sessions.Login(ctx, body.AccessToken, body.User)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			return domain.AnonymousSession(), fmt.Errorf("%w: %w", domain.ErrInvalidLoginResponse, err)
		}
		return domain.AnonymousSession(), err
	}
	return sess, nil
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	resp, err := s.gateway.Send(ctx, ports.Request{
		Method:    http.MethodPost,
		Path:      "/api/auth/register",
		Body:      input,
		Anonymous: true,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	var user domain.User
	if err := resp.Decode(&user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &user, nil
}

// Me asks the backend who the current token belongs to.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := getJSON(ctx, s.gateway, "/api/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// RequireRole returns the current user if logged in with one of roles.
func (s *AuthService) RequireRole(ctx context.Context, roles ...string) (*domain.User, error) {
	sess := s.sessions.Restore(ctx)
	if !sess.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if len(roles) > 0 && !sess.User.HasRole(roles...) {
		return nil, domain.ErrForbidden
	}
	return sess.User, nil
}
