// Package requestid assigns each request a correlation ID, reusing the
// caller-provided X-Request-ID when present.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"precinct/pkg/requestcontext"
)

// Header is the request/response header carrying the correlation ID.
const Header = "X-Request-ID"

// Middleware injects a request ID into the context and echoes it back to the
// client so logs on both sides can be correlated.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
