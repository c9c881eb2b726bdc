package session

import (
	"context"
	"io"
	"testing"

	"github.com/angelmondragon/storefront-client/pkg/api"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/kvstore"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/types"
	"github.com/stretchr/testify/require"
)

type stubAuthAPI struct {
	loginData    *api.AuthData
	loginErr     error
	registerData *api.AuthData
	registerErr  error
	loginCalls   int
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*api.AuthData, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginData, nil
}

func (s *stubAuthAPI) Register(ctx context.Context, name, email, password string) (*api.AuthData, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registerData, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authData() *api.AuthData {
	return &api.AuthData{
		Token:  "tok-1",
		UserID: "u-1",
		User:   types.User{ID: "u-1", Name: "Sam", Email: "sam@example.com"},
	}
}

func TestLoginSuccessPersistsTokenAndUserID(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := New(ctx, &stubAuthAPI{loginData: authData()}, kv, testLogger())

	store.Login(ctx, "sam@example.com", "hunter2")

	require.True(t, store.IsLoggedIn())
	require.Equal(t, "tok-1", store.Token())
	require.Equal(t, "u-1", store.UserID())
	require.Equal(t, "Sam", store.UserName())
	require.Empty(t, store.Err())

	token, err := kv.Get(ctx, kvstore.TokenKey)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	userID, err := kv.Get(ctx, kvstore.UserIDKey)
	require.NoError(t, err)
	require.Equal(t, "u-1", userID)
}

func TestLoginFailureLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	auth := &stubAuthAPI{loginErr: pkgerrors.New(pkgerrors.CodeRequestFailed, "Invalid credentials")}
	store := New(ctx, auth, kv, testLogger())

	store.Login(ctx, "sam@example.com", "wrong")

	require.False(t, store.IsLoggedIn())
	require.Empty(t, store.Token())
	require.Nil(t, store.User())
	require.Equal(t, "Invalid credentials", store.Err())

	_, err := kv.Get(ctx, kvstore.TokenKey)
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoginClearsPreviousError(t *testing.T) {
	ctx := context.Background()
	auth := &stubAuthAPI{loginErr: pkgerrors.New(pkgerrors.CodeNetwork, "")}
	store := New(ctx, auth, kvstore.NewMemory(), testLogger())

	store.Login(ctx, "sam@example.com", "hunter2")
	require.NotEmpty(t, store.Err())

	auth.loginErr = nil
	auth.loginData = authData()
	store.Login(ctx, "sam@example.com", "hunter2")
	require.Empty(t, store.Err())
	require.True(t, store.IsLoggedIn())
}

func TestRegisterEstablishesSession(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	data := &api.AuthData{
		Token: "tok-2",
		User:  types.User{ID: "u-2", Name: "Riley", Email: "riley@example.com"},
	}
	store := New(ctx, &stubAuthAPI{registerData: data}, kv, testLogger())

	store.Register(ctx, "Riley", "riley@example.com", "hunter2")

	require.True(t, store.IsLoggedIn())
	require.Equal(t, "tok-2", store.Token())
	require.Equal(t, "u-2", store.UserID())

	token, err := kv.Get(ctx, kvstore.TokenKey)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := New(ctx, &stubAuthAPI{loginData: authData()}, kv, testLogger())
	store.Login(ctx, "sam@example.com", "hunter2")

	store.Logout(ctx)
	require.False(t, store.IsLoggedIn())
	require.Empty(t, store.Token())
	require.Nil(t, store.User())
	_, err := kv.Get(ctx, kvstore.TokenKey)
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	// Calling again must produce the same final state.
	store.Logout(ctx)
	require.False(t, store.IsLoggedIn())
	require.Empty(t, store.Token())
	_, err = kv.Get(ctx, kvstore.TokenKey)
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestNewRestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, kvstore.TokenKey, "tok-old"))
	require.NoError(t, kv.Set(ctx, kvstore.UserIDKey, "u-old"))

	store := New(ctx, &stubAuthAPI{}, kv, testLogger())

	require.True(t, store.IsLoggedIn())
	require.Equal(t, "tok-old", store.Token())
	require.Equal(t, "u-old", store.UserID())
}
