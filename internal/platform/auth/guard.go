// Package auth decides who may see which page or API of the console.
package auth

import (
	"github.com/medicare/billing-console/internal/platform/session"
)

// Decision is the outcome of a route guard.
type Decision int

const (
	Proceed Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "login"
	case RedirectUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Target is where the browser should go for d, or "" to stay.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectUnauthorized:
		return UnauthorizedPath
	}
	return ""
}

// NormalizeRole folds legacy upstream role names into the canonical ones.
func NormalizeRole(role string) string {
	return session.NormalizeRole(role)
}

// Decide is the guard predicate. An empty allow-list admits any session.
func Decide(role string, hasSession bool, allowed []string) Decision {
	if !hasSession {
		return RedirectLogin
	}
	if len(allowed) == 0 {
		return Proceed
	}
	role = NormalizeRole(role)
	for _, r := range allowed {
		if NormalizeRole(r) == role {
			return Proceed
		}
	}
	return RedirectUnauthorized
}
