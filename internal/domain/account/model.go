package account

import (
	"strings"
	"time"

	"github.com/medicare/billing-console/internal/platform/auth"
	"github.com/medicare/billing-console/pkg/validate"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Credentials) Validate() error {
	var v validate.Errors
	c.Email = strings.TrimSpace(c.Email)
	v.Email("email", c.Email)
	v.MinLen("password", c.Password, 6)
	return v.Err()
}

// LoginResponse is the upstream answer to a login. It arrives either bare
// or inside an envelope.
type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	User     any    `json:"user,omitempty"`
	Username string `json:"username,omitempty"`
}

// Profile describes the signed-in operator to the browser app.
type Profile struct {
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	IsAdmin     bool            `json:"isAdmin"`
	IsBilling   bool            `json:"isBilling"`
	IsInsurance bool            `json:"isInsurance"`
	Menu        []auth.MenuItem `json:"menu"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Redirect    string          `json:"redirect,omitempty"`
}
