// Package session holds the authentication state container: token, current
// user and login/registration error state. Failures never escalate to the
// caller; they are recorded on the store and read back through Err.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/angelmondragon/storefront-client/pkg/api"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/kvstore"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/types"
)

// AuthAPI is the slice of the API client the session store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthData, error)
	Register(ctx context.Context, name, email, password string) (*api.AuthData, error)
}

// Store owns the auth token and current user. One instance per process;
// catalog and cart read credentials through it.
type Store struct {
	mu   sync.Mutex
	auth AuthAPI
	kv   kvstore.Store
	logg *logger.Logger

	token          string
	user           *types.User
	restoredUserID string
	loggedIn       bool
	lastErr        string
}

// New builds the store and restores the persisted token and user id, so a
// session survives process restarts without a fresh login.
func New(ctx context.Context, auth AuthAPI, kv kvstore.Store, logg *logger.Logger) *Store {
	s := &Store{auth: auth, kv: kv, logg: logg}

	if token, err := kv.Get(ctx, kvstore.TokenKey); err == nil {
		s.token = token
		s.loggedIn = token != ""
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		logg.Warn(ctx, "failed to restore persisted token")
	}
	if userID, err := kv.Get(ctx, kvstore.UserIDKey); err == nil {
		s.restoredUserID = userID
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		logg.Warn(ctx, "failed to restore persisted user id")
	}

	return s
}

// Login exchanges credentials for a session. On success the token and user
// replace any previous session state and are mirrored to the persistent
// store; on failure the error message is recorded and no partial state is
// retained.
func (s *Store) Login(ctx context.Context, email, password string) {
	data, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.recordFailure(ctx, "login failed", err)
		return
	}
	s.establish(ctx, data, data.UserID)
	s.logg.Info(s.logg.WithUserID(ctx, s.UserID()), "user logged in")
}

// Register creates an account. The server answers with a live token, so a
// successful registration establishes the session the same way login does.
func (s *Store) Register(ctx context.Context, name, email, password string) {
	data, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		s.recordFailure(ctx, "registration failed", err)
		return
	}
	s.establish(ctx, data, data.User.ID)
	s.logg.Info(s.logg.WithUserID(ctx, s.UserID()), "user registered")
}

// Logout clears the session in memory and removes the persisted token.
// Safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	s.restoredUserID = ""
	s.loggedIn = false
	s.lastErr = ""

	if err := s.kv.Remove(ctx, kvstore.TokenKey); err != nil {
		s.logg.Error(ctx, "failed to remove persisted token", err)
	}
	s.logg.Info(ctx, "user logged out")
}

func (s *Store) establish(ctx context.Context, data *api.AuthData, userID string) {
	user := data.User
	if userID == "" {
		userID = user.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = data.Token
	s.user = &user
	s.restoredUserID = userID
	s.loggedIn = true
	s.lastErr = ""

	if err := s.kv.Set(ctx, kvstore.TokenKey, data.Token); err != nil {
		s.logg.Error(ctx, "failed to persist token", err)
	}
	if userID != "" {
		if err := s.kv.Set(ctx, kvstore.UserIDKey, userID); err != nil {
			s.logg.Error(ctx, "failed to persist user id", err)
		}
	}
}

func (s *Store) recordFailure(ctx context.Context, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = pkgerrors.UserMessage(err)
	s.token = ""
	s.user = nil
	s.loggedIn = false

	s.logg.Error(ctx, msg, err)
}

// Token returns the current auth token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user, nil when logged out.
func (s *Store) User() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// UserID returns the current user id, falling back to the id restored from
// the persistent store when the user record itself is not in memory.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.ID != "" {
		return s.user.ID
	}
	return s.restoredUserID
}

// UserName returns the display name used on orders, empty when anonymous.
func (s *Store) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Name
}

// IsLoggedIn reports whether a session is established.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Err returns the last recorded error message, empty when the most recent
// operation succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
