package domain

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is the authenticated principal as returned by the backend and
// persisted under the "user" storage key.
type User struct {
	ID        ID         `json:"id" validate:"required"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role" validate:"required"`
	Phone     string     `json:"phone,omitempty"`
	IsActive  bool       `json:"is_active,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

// HasRole reports whether the user holds any of the given roles.
func (u User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
