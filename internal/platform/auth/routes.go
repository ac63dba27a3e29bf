package auth

import (
	"strings"

	"github.com/medicare/billing-console/internal/platform/session"
)

// Route is one page of the browser app and the roles allowed to open it.
// Hidden routes are guarded but not listed in the sidebar.
type Route struct {
	Path   string   `json:"path"`
	Title  string   `json:"title"`
	Roles  []string `json:"roles,omitempty"`
	Hidden bool     `json:"-"`
}

var (
	adminOnly      = []string{session.RoleAdmin}
	adminBilling   = []string{session.RoleAdmin, session.RoleBilling}
	adminInsurance = []string{session.RoleAdmin, session.RoleInsurance}
)

// Routes is the navigation table in sidebar order.
var Routes = []Route{
	{Path: "/dashboard", Title: "Dashboard"},
	{Path: "/patients", Title: "Patients"},
	{Path: "/users", Title: "Users", Roles: adminOnly},
	{Path: "/services", Title: "Services", Roles: adminOnly},
	{Path: "/insurance", Title: "Insurance", Roles: adminInsurance},
	{Path: "/billing", Title: "Billing", Roles: adminBilling},
	{Path: "/billing/:id", Title: "Bill", Roles: adminBilling, Hidden: true},
	{Path: "/payments", Title: "Payments", Roles: adminBilling},
	{Path: "/reports", Title: "Reports", Roles: adminOnly},
}

// Match finds the route for path. Segments starting with ':' match any
// single non-empty segment.
func Match(path string) (Route, bool) {
	segs := splitPath(path)
	for _, r := range Routes {
		if matchSegments(splitPath(r.Path), segs) {
			return r, true
		}
	}
	return Route{}, false
}

// NavResult is what the browser router needs to act on a navigation.
type NavResult struct {
	Path     string `json:"path"`
	Decision string `json:"decision"`
	Redirect string `json:"redirect,omitempty"`
	Route    *Route `json:"route,omitempty"`
}

// Navigate applies the guard for path. Unknown paths fall back to the
// login page, the same as the browser app's wildcard route.
func Navigate(sess *session.Session, path string) NavResult {
	res := NavResult{Path: path}
	route, ok := Match(path)
	if !ok {
		res.Decision = RedirectLogin.String()
		res.Redirect = LoginPath
		return res
	}

	role := ""
	if sess != nil {
		role = sess.Role
	}
	d := Decide(role, sess != nil, route.Roles)
	res.Decision = d.String()
	res.Redirect = d.Target()
	res.Route = &route
	return res
}

// MenuItem is a sidebar entry.
type MenuItem struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Menu returns the sidebar entries role may open.
func Menu(role string) []MenuItem {
	items := make([]MenuItem, 0, len(Routes))
	for _, r := range Routes {
		if r.Hidden {
			continue
		}
		if Decide(role, true, r.Roles) == Proceed {
			items = append(items, MenuItem{Path: r.Path, Title: r.Title})
		}
	}
	return items
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) bool {
	if len(pattern) != len(segs) || len(segs) == 0 {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}
