package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"trainhub/portal/internal/flagstore"
	"trainhub/portal/internal/models"
)

// Persisted flag keys. The names are part of the storage contract shared with
// the login and document-view flows; do not rename.
const (
	FlagRole     = "role"
	FlagName     = "name"
	FlagUsername = "userName"
	FlagUserID   = "userId"
	FlagCourseID = "courseId"
)

// CookieJar is the store's only view of the access-token cookie. The request
// layer supplies an implementation bound to the live request/response pair.
type CookieJar interface {
	// Token returns the access_token cookie value, or "" when absent.
	Token() string
	// ClearToken expires the cookie on the outgoing response.
	ClearToken()
}

// State is the observable session snapshot. Role, DisplayName and Username
// are only meaningful while Authenticated is true.
type State struct {
	Authenticated bool
	Role          models.Role
	DisplayName   string
	Username      string
}

// Store is the single source of truth for "who is the current user" within
// one browser session. It is hydrated once from the flag store and the
// access-token cookie, and mutated only through Login and Logout.
//
// No operation returns an error: every internal failure resolves to the safe
// fallback (hydration treats unreadable flags as absent, logout proceeds to
// its reset regardless).
type Store struct {
	flags   flagstore.Store
	cookies CookieJar
	log     zerolog.Logger

	mu         sync.RWMutex
	state      State
	tokenSeen  bool
	storedRole models.Role
	roleValid  bool
	subs       []func(State)
	onLogout   []func(ctx context.Context)
}

func NewStore(flags flagstore.Store, cookies CookieJar, log zerolog.Logger) *Store {
	return &Store{
		flags:   flags,
		cookies: cookies,
		log:     log,
	}
}

// Hydrate populates the in-memory state from the cookie and persisted flags.
// The session counts as authenticated only when the token and all three
// identity flags are present and the role parses. Malformed or unreadable
// values are treated as absent. Hydrate is idempotent.
func (s *Store) Hydrate(ctx context.Context) {
	token := s.cookies.Token()

	roleRaw, roleOK := s.readFlag(ctx, FlagRole)
	name, nameOK := s.readFlag(ctx, FlagName)
	username, userOK := s.readFlag(ctx, FlagUsername)

	role, roleValid := models.ParseRole(roleRaw)
	if roleOK && !roleValid {
		s.log.Warn().Str("value", roleRaw).Msg("discarding malformed stored role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokenSeen = token != ""
	s.storedRole = role
	s.roleValid = roleValid

	s.state = State{}
	if s.tokenSeen && roleValid && nameOK && name != "" && userOK && username != "" {
		s.state = State{
			Authenticated: true,
			Role:          role,
			DisplayName:   name,
			Username:      username,
		}
	}
}

// Login persists the identity flags and flips the session to authenticated.
// A later Hydrate against the same flag namespace reproduces this state.
func (s *Store) Login(ctx context.Context, role models.Role, displayName, username string) {
	s.writeFlag(ctx, FlagRole, string(role))
	s.writeFlag(ctx, FlagName, displayName)
	s.writeFlag(ctx, FlagUsername, username)

	s.mu.Lock()
	s.tokenSeen = true
	s.storedRole = role
	s.roleValid = true
	s.state = State{
		Authenticated: true,
		Role:          role,
		DisplayName:   displayName,
		Username:      username,
	}
	state := s.state
	subs := append([]func(State){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Logout clears the access-token cookie, wipes every persisted flag in the
// namespace, resets the observable state and runs the registered purge hooks.
// It is safe to call repeatedly and never fails: a storage error is logged
// and the reset still completes, since the next hydration re-validates
// against the now-absent token anyway.
func (s *Store) Logout(ctx context.Context) {
	s.cookies.ClearToken()

	if err := s.flags.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("session flag wipe failed during logout")
	}

	s.mu.Lock()
	s.tokenSeen = false
	s.storedRole = ""
	s.roleValid = false
	s.state = State{}
	state := s.state
	subs := append([]func(State){}, s.subs...)
	hooks := append([]func(ctx context.Context){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	for _, fn := range hooks {
		fn(ctx)
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

func (s *Store) Role() (models.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.Authenticated {
		return "", false
	}
	return s.state.Role, true
}

func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DisplayName
}

func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Username
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// HasToken reports whether the access-token cookie was present at hydration.
func (s *Store) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenSeen
}

// StoredRole returns the persisted role regardless of the full authenticated
// derivation. The route guard uses it to pick a role home even when the name
// flags are missing.
func (s *Store) StoredRole() (models.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.roleValid {
		return "", false
	}
	return s.storedRole, true
}

// Subscribe registers fn to run after every Login/Logout state change.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// OnLogout registers a hook run at the end of Logout, after the state reset.
// Used to purge session-scoped caches.
func (s *Store) OnLogout(fn func(ctx context.Context)) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

// SetUserID persists the userId convenience flag.
func (s *Store) SetUserID(ctx context.Context, id string) {
	s.writeFlag(ctx, FlagUserID, id)
}

// UserID reads the persisted userId flag, "" when absent or unreadable.
func (s *Store) UserID(ctx context.Context) string {
	val, _ := s.readFlag(ctx, FlagUserID)
	return val
}

// RememberCourse persists the courseId convenience flag recording the last
// course whose document view was opened.
func (s *Store) RememberCourse(ctx context.Context, courseID string) {
	s.writeFlag(ctx, FlagCourseID, courseID)
}

func (s *Store) readFlag(ctx context.Context, key string) (string, bool) {
	val, ok, err := s.flags.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("flag", key).Msg("flag read failed, treating as absent")
		return "", false
	}
	return val, ok
}

func (s *Store) writeFlag(ctx context.Context, key, value string) {
	if err := s.flags.Set(ctx, key, value); err != nil {
		s.log.Error().Err(err).Str("flag", key).Msg("flag write failed")
	}
}
