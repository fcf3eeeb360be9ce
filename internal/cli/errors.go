package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

const loginHint = "Your session has expired. Run `morden login` to sign in again."

// Render maps an error to the message shown to the operator. Known domain
// errors get fixed wording; anything else is printed as is.
func Render(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, domain.ErrSessionExpired):
		return "session expired"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not logged in, run `morden login` first"
	case errors.Is(err, domain.ErrForbidden):
		return "access forbidden: this command needs an admin account"
	case errors.Is(err, domain.ErrInvalidLoginResponse):
		return "invalid response from server"
	case errors.Is(err, domain.ErrNoResponse):
		return "cannot connect to server, check your connection"
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	}

	var he *domain.HTTPError
	if errors.As(err, &he) {
		if detail := backendDetail(he.Body); detail != "" {
			return fmt.Sprintf("server error: %d (%s)", he.Status, detail)
		}
		return fmt.Sprintf("server error: %d", he.Status)
	}
	return err.Error()
}

// backendDetail extracts {"detail": "..."} from an error body.
func backendDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(envelope.Detail, &s) == nil {
		return s
	}
	return ""
}
