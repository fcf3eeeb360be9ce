package ports

import (
	"context"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// RegisterInput carries the fields accepted by POST /api/auth/register.
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin client"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Me(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
	RequireRole(ctx context.Context, roles ...string) (*domain.User, error)
}
