package domain

import (
	"time"
)

// Role constants define the allowed user roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleCustomer, RoleAdmin}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a registered account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
