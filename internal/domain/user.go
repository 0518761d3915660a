package domain

import "time"

type UserRole string

const (
	RoleRequester UserRole = "requester"
	RoleAdmin     UserRole = "admin"
)

// ParseUserRole maps a stored role string to the enumerated set. The role is
// resolved once at login and carried in the token; handlers never re-derive it.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleRequester, RoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Department   string    `json:"department,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
