package user

import (
	"strings"

	"github.com/medicare/billing-console/internal/platform/session"
	"github.com/medicare/billing-console/pkg/validate"
)

// User is a console operator account managed upstream.
type User struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks the form and canonicalizes the role in place.
func (r *CreateRequest) Validate() error {
	var v validate.Errors
	r.Email = strings.TrimSpace(r.Email)
	v.Email("email", r.Email)
	v.MinLen("password", r.Password, 6)
	r.Role = validateRole(&v, r.Role)
	return v.Err()
}

type RoleRequest struct {
	Role string `json:"role"`
}

type StatusRequest struct {
	IsActive bool `json:"isActive"`
}

func validateRole(v *validate.Errors, role string) string {
	canon := session.NormalizeRole(role)
	v.OneOf("role", canon, session.Roles...)
	return canon
}
