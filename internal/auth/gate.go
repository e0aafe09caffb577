package auth

import "undian/internal/models"

// Status is the outcome of RequireAuth. Unauthenticated (send the caller to
// login) and Forbidden (reject) are deliberately distinct.
type Status int

const (
	StatusAuthenticated Status = iota
	StatusUnauthenticated
	StatusForbidden
)

// Gate selects between the two session domains when gating protected views.
type Gate struct {
	Admin *SessionService
	Kasir *SessionService
}

// RequireAuth picks the kasir domain when requiredRole is kasir and the admin
// domain otherwise, then reports the session plus the gate outcome.
func (g Gate) RequireAuth(requiredRole string) (*models.Session, Status) {
	svc := g.Admin
	if requiredRole == models.RoleKasir {
		svc = g.Kasir
	}
	session := svc.Session()
	if session == nil {
		return nil, StatusUnauthenticated
	}
	if requiredRole != "" && session.Role != requiredRole {
		return session, StatusForbidden
	}
	return session, StatusAuthenticated
}
