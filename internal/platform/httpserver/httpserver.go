// Package httpserver centralizes http.Server construction so every binary
// gets the same timeout posture.
package httpserver

import (
	"net/http"
	"time"
)

// Timeouts sized for a JSON API: requests are small, responses can carry
// session history pages, and idle keep-alives should not pin connections.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 2 * time.Minute
)

func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
