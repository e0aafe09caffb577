// Package auth implements the dual-session authentication model gating access
// to the record store: a persistent admin domain and an ephemeral kasir domain
// with mandatory store-affinity validation.
package auth

import (
	"encoding/json"
	"log"
	"time"

	"undian/internal/identity"
	"undian/internal/models"
	"undian/internal/storage"
	"undian/internal/store"
)

// Login rejection messages shown to staff. The store mismatch carries the
// detailed wording because it is the security-relevant rejection: a kasir
// credential valid for toko A must not operate toko B's terminal.
const (
	MsgUserNotFound  = "Username tidak ditemukan"
	MsgWrongPassword = "Password salah"
	MsgAccessDenied  = "Akses ditolak"
	MsgRoleDenied    = "Akses ditolak untuk role ini"
	MsgStoreMismatch = "Akses Ditolak: Akun Anda tidak terdaftar untuk beroperasi di toko ini. Silakan pilih toko yang sesuai penugasan Anda."
)

// LoginResult is the structured outcome of a login attempt. Failures are data
// the caller branches on, never an error value.
type LoginResult struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	User    *models.Session `json:"user,omitempty"`
}

// Namespace keys for the two session domains. They must stay distinct so the
// domains can coexist without collision.
const (
	adminSessionKey = "undian_session"
	kasirSessionKey = "undian_kasir_session"
)

// SessionService manages one session domain: a namespace key in a backend
// whose lifetime defines the domain's persistence policy. Both domains read
// the same user collection but never each other's namespace.
type SessionService struct {
	store   *store.Store
	backend storage.Backend
	key     string
	hasher  identity.Hasher
	now     func() time.Time
}

// NewAdminSessionService creates the admin domain. Give it the durable backend
// so the session survives process restarts until explicit logout.
func NewAdminSessionService(st *store.Store, backend storage.Backend, hasher identity.Hasher) *SessionService {
	return &SessionService{store: st, backend: backend, key: adminSessionKey, hasher: hasher, now: time.Now}
}

// NewKasirSessionService creates the kasir domain. Give it an ephemeral
// backend so the session dies with the process and the kasir must log in
// again.
func NewKasirSessionService(st *store.Store, backend storage.Backend, hasher identity.Hasher) *SessionService {
	return &SessionService{store: st, backend: backend, key: kasirSessionKey, hasher: hasher, now: time.Now}
}

func (s *SessionService) lookupUser(username string) (models.User, bool) {
	doc := s.store.FindOneBy(store.KindUsers, "username", username)
	if doc == nil {
		return models.User{}, false
	}
	user, err := store.Decode[models.User](doc)
	if err != nil {
		log.Printf("auth: user record for %s is malformed: %v", username, err)
		return models.User{}, false
	}
	return user, true
}

// Login authenticates by username and password and, when requiredRole is set,
// rejects users of any other role. On success it opens this domain's session.
func (s *SessionService) Login(username, password, requiredRole string) LoginResult {
	user, ok := s.lookupUser(username)
	if !ok {
		return LoginResult{Error: MsgUserNotFound}
	}
	if !s.hasher.Verify(password, user.Password) {
		return LoginResult{Error: MsgWrongPassword}
	}
	if requiredRole != "" && user.Role != requiredRole {
		return LoginResult{Error: MsgAccessDenied}
	}
	return LoginResult{Success: true, User: s.open(user)}
}

// LoginWithStoreValidation is the kasir login. Four checks run in order and
// short-circuit on the first failure: the username exists, the password
// matches, the role is exactly kasir, and the account's assigned toko equals
// selectedStore exactly (string equality, no normalisation).
func (s *SessionService) LoginWithStoreValidation(username, password, selectedStore string) LoginResult {
	user, ok := s.lookupUser(username)
	if !ok {
		return LoginResult{Error: MsgUserNotFound}
	}
	if !s.hasher.Verify(password, user.Password) {
		return LoginResult{Error: MsgWrongPassword}
	}
	if user.Role != models.RoleKasir {
		return LoginResult{Error: MsgRoleDenied}
	}
	if user.TokoName != selectedStore {
		return LoginResult{Error: MsgStoreMismatch}
	}
	return LoginResult{Success: true, User: s.open(user)}
}

// open persists the session blob under this domain's namespace.
func (s *SessionService) open(user models.User) *models.Session {
	session := &models.Session{
		ID:         user.ID,
		Username:   user.Username,
		Role:       user.Role,
		TokoName:   user.TokoName,
		LoggedInAt: s.now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(session)
	if err == nil {
		err = s.backend.Put(s.key, raw)
	}
	if err != nil {
		log.Printf("auth: persisting session %s failed: %v", s.key, err)
	}
	return session
}

// Session returns the current session, or nil when the domain is anonymous or
// its blob is unreadable.
func (s *SessionService) Session() *models.Session {
	raw, err := s.backend.Get(s.key)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil
	}
	return &session
}

// Logout clears only this domain's namespace; the other domain is untouched.
func (s *SessionService) Logout() {
	if err := s.backend.Delete(s.key); err != nil {
		log.Printf("auth: clearing session %s failed: %v", s.key, err)
	}
}

// IsLoggedIn reports whether the domain holds a session.
func (s *SessionService) IsLoggedIn() bool {
	return s.Session() != nil
}

// HasRole reports whether the domain holds a session with the given role.
func (s *SessionService) HasRole(role string) bool {
	session := s.Session()
	return session != nil && session.Role == role
}
