package handler

import (
	"context"
	"net/http"

	id "precinct/pkg/domain"
	"precinct/pkg/requestcontext"
)

// ActivityTracker advances a session's activity clock.
type ActivityTracker interface {
	Touch(ctx context.Context, sessionID id.SessionID)
}

// TrackActivity marks the request's session active. Mounted after RequireAuth
// so every authenticated request moves last_active_time forward; without it
// the history page would show the login instant forever.
func TrackActivity(sessions ActivityTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessions.Touch(r.Context(), requestcontext.SessionID(r.Context()))
			next.ServeHTTP(w, r)
		})
	}
}
