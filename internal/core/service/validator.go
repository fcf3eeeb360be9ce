package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

// inputValidator wraps go-playground/validator and folds its errors into
// domain.ErrInvalidInput with readable messages.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	return &inputValidator{v: validator.New()}
}

func (iv *inputValidator) Struct(i any) error {
	if err := iv.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// Var validates a single value against a tag, reporting it as name.
func (iv *inputValidator) Var(name string, value any, tag string) error {
	if err := iv.v.Var(value, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, tagMessage(name, ve[0].Tag(), ve[0].Param()))
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, name, err)
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	return tagMessage(strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
}

func tagMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, tag)
	}
}
