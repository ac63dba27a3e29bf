package session

import (
	"errors"
	"strings"
	"time"
)

// Canonical role names. The upstream API has used BillingStaff and
// InsuranceStaff for the same roles; NormalizeRole folds those in.
const (
	RoleAdmin     = "Admin"
	RoleBilling   = "Billing"
	RoleInsurance = "Insurance"
)

// Roles lists the canonical roles in display order.
var Roles = []string{RoleAdmin, RoleBilling, RoleInsurance}

var roleAliases = map[string]string{
	"admin":          RoleAdmin,
	"billing":        RoleBilling,
	"billingstaff":   RoleBilling,
	"insurance":      RoleInsurance,
	"insurancestaff": RoleInsurance,
}

// NormalizeRole maps any known spelling to its canonical name. Unknown
// roles are returned trimmed but otherwise untouched so that they never
// match an allow-list by accident.
func NormalizeRole(role string) string {
	r := strings.TrimSpace(role)
	if canon, ok := roleAliases[strings.ToLower(r)]; ok {
		return canon
	}
	return r
}

// IsKnownRole reports whether role normalizes to a canonical role.
func IsKnownRole(role string) bool {
	_, ok := roleAliases[strings.ToLower(strings.TrimSpace(role))]
	return ok
}

var ErrNotFound = errors.New("session not found")

// Session is the server-side record of a signed-in staff member: the
// upstream bearer token and the role it was issued for.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) IsAdmin() bool     { return s != nil && s.Role == RoleAdmin }
func (s *Session) IsBilling() bool   { return s != nil && s.Role == RoleBilling }
func (s *Session) IsInsurance() bool { return s != nil && s.Role == RoleInsurance }

// HasRole reports whether the session's role is one of roles. Roles are
// compared after normalization.
func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if NormalizeRole(r) == s.Role {
			return true
		}
	}
	return false
}
