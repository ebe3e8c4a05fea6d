package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"precinct/internal/console/storage"
	"precinct/pkg/platform/sentinel"
)

//go:generate mockgen -source=authstate.go -destination=mock_authapi_test.go -package=console AuthAPI

// AuthAPI is the slice of the Client that AuthState drives. Narrow on purpose
// so tests can substitute it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*Profile, error)
}

// AuthState is the explicit, injected authentication state container. It
// holds at most one cached profile: non-nil exactly when the last profile
// fetch succeeded and no logout or failure has happened since.
type AuthState struct {
	mu      sync.RWMutex
	profile *Profile
	loading bool

	api    AuthAPI
	store  storage.Store
	logger *slog.Logger

	// loginURL is where BeginRedirectLogin sends the user. The redirect flow
	// is kept alongside the credentials flow; deployments pick one.
	loginURL string
}

func NewAuthState(api AuthAPI, store storage.Store, loginURL string, logger *slog.Logger) *AuthState {
	return &AuthState{
		api:      api,
		store:    store,
		loginURL: loginURL,
		logger:   logger,
		loading:  true,
	}
}

// Profile returns the cached profile, nil when unauthenticated.
func (a *AuthState) Profile() *Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.profile == nil {
		return nil
	}
	cp := *a.profile
	return &cp
}

// IsAuthenticated reports whether a profile is cached.
func (a *AuthState) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile != nil
}

// IsLoading reports whether the initial CheckAuth has not yet completed.
func (a *AuthState) IsLoading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// CheckAuth restores the session on startup. Without a stored token it clears
// state and returns without any network traffic. With one it fetches the
// profile; any failure removes the token so the next start is clean.
func (a *AuthState) CheckAuth(ctx context.Context) {
	defer a.stopLoading()

	token, err := a.store.Get(storage.KeyAuthToken)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		a.logger.WarnContext(ctx, "failed to read stored token", "error", err)
	}
	if token == "" {
		a.setProfile(nil)
		return
	}

	profile, err := a.api.GetProfile(ctx)
	if err != nil {
		a.logger.InfoContext(ctx, "stored token rejected, clearing it", "error", err)
		if err := a.store.Delete(storage.KeyAuthToken); err != nil {
			a.logger.WarnContext(ctx, "failed to remove stored token", "error", err)
		}
		a.setProfile(nil)
		return
	}
	a.setProfile(profile)
}

// LoginWithCredentials runs the form login flow and caches the profile.
func (a *AuthState) LoginWithCredentials(ctx context.Context, email, password string) error {
	if _, err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	profile, err := a.api.GetProfile(ctx)
	if err != nil {
		return err
	}
	a.setProfile(profile)
	return nil
}

// BeginRedirectLogin returns the URL the redirect login flow starts at. The
// caller opens it; the session lands through CheckAuth afterwards.
func (a *AuthState) BeginRedirectLogin() string {
	return a.loginURL
}

// Logout revokes the session and clears all local auth state. The cached
// profile is dropped even when the server call fails; the client has already
// cleared its local keys and a stale profile must not outlive them. Idempotent.
func (a *AuthState) Logout(ctx context.Context) error {
	defer a.setProfile(nil)
	return a.api.Logout(ctx)
}

func (a *AuthState) setProfile(profile *Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = profile
}

func (a *AuthState) stopLoading() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = false
}
