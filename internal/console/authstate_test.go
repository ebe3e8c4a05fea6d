package console

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"precinct/internal/console/storage"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/sentinel"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func newAuthState(t *testing.T) (*AuthState, *MockAuthAPI, *storage.Memory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := NewMockAuthAPI(ctrl)
	store := storage.NewMemory()
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	return NewAuthState(api, store, "https://precinct.example/login", logger), api, store
}

func TestCheckAuthWithoutToken(t *testing.T) {
	state, api, _ := newAuthState(t)
	_ = api // no expectations: absent token must not trigger any API call

	assert.True(t, state.IsLoading())
	state.CheckAuth(context.Background())

	assert.Nil(t, state.Profile())
	assert.False(t, state.IsAuthenticated())
	assert.False(t, state.IsLoading())
}

func TestCheckAuthRestoresSession(t *testing.T) {
	state, api, store := newAuthState(t)
	require.NoError(t, store.Set(storage.KeyAuthToken, "stored-token"))

	api.EXPECT().GetProfile(gomock.Any()).Return(&Profile{OfficerName: "Jane Doe"}, nil)

	state.CheckAuth(context.Background())

	require.True(t, state.IsAuthenticated())
	assert.Equal(t, "Jane Doe", state.Profile().OfficerName)
	assert.False(t, state.IsLoading())
}

func TestCheckAuthRejectedTokenIsRemoved(t *testing.T) {
	state, api, store := newAuthState(t)
	require.NoError(t, store.Set(storage.KeyAuthToken, "expired-token"))

	api.EXPECT().GetProfile(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))

	state.CheckAuth(context.Background())

	assert.Nil(t, state.Profile())
	assert.False(t, state.IsAuthenticated())
	_, err := store.Get(storage.KeyAuthToken)
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "a rejected token must be removed")
}

func TestLoginWithCredentials(t *testing.T) {
	state, api, _ := newAuthState(t)

	gomock.InOrder(
		api.EXPECT().Login(gomock.Any(), "jane@precinct.gov", "pw").
			Return(&LoginResult{Token: "signed-token"}, nil),
		api.EXPECT().GetProfile(gomock.Any()).
			Return(&Profile{OfficerName: "Jane Doe"}, nil),
	)

	require.NoError(t, state.LoginWithCredentials(context.Background(), "jane@precinct.gov", "pw"))
	assert.True(t, state.IsAuthenticated())
}

func TestLoginWithCredentialsFailure(t *testing.T) {
	state, api, _ := newAuthState(t)

	api.EXPECT().Login(gomock.Any(), "jane@precinct.gov", "wrong").
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"))

	err := state.LoginWithCredentials(context.Background(), "jane@precinct.gov", "wrong")
	require.Error(t, err)
	// the backend message reaches the caller untouched
	assert.Equal(t, "invalid email or password", dErrors.GetMessage(err))
	assert.False(t, state.IsAuthenticated())
}

func TestLogoutIsIdempotent(t *testing.T) {
	state, api, store := newAuthState(t)
	require.NoError(t, store.Set(storage.KeyAuthToken, "stored-token"))

	api.EXPECT().GetProfile(gomock.Any()).Return(&Profile{OfficerName: "Jane Doe"}, nil)
	state.CheckAuth(context.Background())
	require.True(t, state.IsAuthenticated())

	api.EXPECT().Logout(gomock.Any()).Return(nil).Times(2)

	require.NoError(t, state.Logout(context.Background()))
	assert.False(t, state.IsAuthenticated())
	assert.Nil(t, state.Profile())

	require.NoError(t, state.Logout(context.Background()))
	assert.False(t, state.IsAuthenticated())
}

func TestLogoutClearsProfileWhenServerCallFails(t *testing.T) {
	state, api, store := newAuthState(t)
	require.NoError(t, store.Set(storage.KeyAuthToken, "stored-token"))

	api.EXPECT().GetProfile(gomock.Any()).Return(&Profile{OfficerName: "Jane Doe"}, nil)
	state.CheckAuth(context.Background())
	require.True(t, state.IsAuthenticated())

	api.EXPECT().Logout(gomock.Any()).Return(errors.New("storage write failed"))

	err := state.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, state.IsAuthenticated(), "a failed server logout must not leave a cached profile")
	assert.Nil(t, state.Profile())
}

func TestBeginRedirectLogin(t *testing.T) {
	state, _, _ := newAuthState(t)
	assert.Equal(t, "https://precinct.example/login", state.BeginRedirectLogin())
}

func TestGuard(t *testing.T) {
	state, api, store := newAuthState(t)
	guard := NewGuard(state)

	route, ok := guard.Allow("/crime-records")
	assert.False(t, ok)
	assert.Equal(t, LoginRoute, route, "unauthenticated navigation always lands on the login route")

	require.NoError(t, store.Set(storage.KeyAuthToken, "stored-token"))
	api.EXPECT().GetProfile(gomock.Any()).Return(&Profile{OfficerName: "Jane Doe"}, nil)
	state.CheckAuth(context.Background())

	route, ok = guard.Allow("/crime-records")
	assert.True(t, ok)
	assert.Equal(t, "/crime-records", route)
}
