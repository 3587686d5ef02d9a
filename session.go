package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/labstack/gommon/log"
)

// Routes the session navigates to.
const (
	LoginRoute     = "/admin/login"
	DashboardRoute = "/admin/dashboard"
)

// UserStorageKey is the storage key holding the signed-in user.
const UserStorageKey = "user"

// Ops whose 401 answers say nothing about an existing session.
const (
	loginOp  = "POST /auth/login"
	logoutOp = "POST /auth/logout"
)

// State is where the session is in its lifecycle.
type State int

const (
	// StateUnknown is the zero value, held only until Restore runs. NewSession
	// restores before returning, so a Session never reports it.
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Navigator moves the consumer to a route, e.g. a browser redirect or a CLI
// hint.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Session owns the authentication state: the current user, its persisted
// copy in Storage, and the cache entries that depend on it.
type Session struct {
	mu    sync.RWMutex
	state State
	user  *User

	storage Storage
	auth    *AuthService
	cache   *QueryCache
	nav     Navigator
	limiter *LoginLimiter
	logger  *log.Logger
}

// NewSession creates a Session and restores any persisted user. When t is
// non-nil the session subscribes to its 401 notifications.
func NewSession(storage Storage, auth *AuthService, cache *QueryCache, nav Navigator, limiter *LoginLimiter, t *Transport, logger *log.Logger) *Session {
	if logger == nil {
		logger = NewLogger("off")
	}
	if nav == nil {
		nav = NavigatorFunc(func(route string) { logger.Debugf("navigate %s", route) })
	}
	s := &Session{
		storage: storage,
		auth:    auth,
		cache:   cache,
		nav:     nav,
		limiter: limiter,
		logger:  logger,
	}
	s.Restore()
	if t != nil {
		t.OnUnauthenticated(s.handleUnauthenticated)
	}
	return s
}

// Restore reads the persisted user. A record that is present and parses makes
// the session authenticated; anything else makes it anonymous, and a corrupt
// record is discarded.
func (s *Session) Restore() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.state = StateAnonymous

	raw, ok, err := s.storage.Get(UserStorageKey)
	if err != nil {
		s.logger.Errorf("load persisted user: %v", err)
		return s.state
	}
	if !ok {
		return s.state
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.logger.Warnf("discarding corrupt persisted user record")
		if err := s.storage.Remove(UserStorageKey); err != nil {
			s.logger.Errorf("remove persisted user: %v", err)
		}
		return s.state
	}
	s.user = &u
	s.state = StateAuthenticated
	return s.state
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Login signs in, persists the user, seeds the current-user cache entry and
// navigates to the dashboard.
func (s *Session) Login(ctx context.Context, email, password string) (User, error) {
	creds := Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return User{}, err
	}
	if s.limiter != nil && !s.limiter.Check(email) {
		return User{}, ErrLoginThrottled
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		if s.limiter != nil && errors.Is(err, ErrAuth) {
			s.limiter.Record(email)
		}
		s.logger.Warnf("login failed for %s: %v", email, err)
		return User{}, err
	}
	if s.limiter != nil {
		s.limiter.Reset(email)
	}

	u := res.User
	if err := s.persist(&u); err != nil {
		// The cookie session is valid; only the restart shortcut is lost.
		s.logger.Errorf("persist user: %v", err)
	}
	s.mu.Lock()
	s.user = &u
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.cache.Set(currentUserKey, u)
	s.logger.Infof("logged in as %s", u.Email)
	s.nav.Navigate(DashboardRoute)
	return u, nil
}

// Logout ends the session. Local state is always cleared and the login route
// is always shown, even when the server call fails; that failure is only
// logged.
func (s *Session) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Warnf("remote logout failed, clearing local session anyway: %v", err)
	}
	s.signOut()
	s.logger.Infof("logged out")
	s.nav.Navigate(LoginRoute)
}

// SetUser replaces the signed-in user, persisting it, or signs out locally
// when u is nil.
func (s *Session) SetUser(u *User) error {
	if u == nil {
		s.signOut()
		return nil
	}
	cp := *u
	if err := s.persist(&cp); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = &cp
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.cache.Set(currentUserKey, cp)
	return nil
}

// signOut clears the persisted record, the in-memory user and every cache
// entry.
func (s *Session) signOut() {
	if err := s.storage.Remove(UserStorageKey); err != nil {
		s.logger.Errorf("remove persisted user: %v", err)
	}
	s.mu.Lock()
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
	s.cache.Clear()
}

func (s *Session) persist(u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.storage.Set(UserStorageKey, string(data))
}

// handleUnauthenticated reacts to a 401 from any request other than login
// and logout. An authenticated session becomes anonymous, loses its persisted
// record and cached state, and is sent to the login route. For an anonymous
// session a 401 is the expected answer; only the current-user entry goes.
func (s *Session) handleUnauthenticated(err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Op == loginOp || apiErr.Op == logoutOp) {
		return
	}
	if s.State() != StateAuthenticated {
		s.cache.Remove(currentUserKey)
		return
	}
	s.signOut()
	s.logger.Warnf("session expired: %v", err)
	s.nav.Navigate(LoginRoute)
}
