// Package httputil centralizes the JSON response envelope used by every
// endpoint. Responses always carry the shape
//
//	{"status": "success"|"error", "data": ..., "message": "..."}
//
// so clients can branch on status without inspecting HTTP codes, and domain
// errors are translated in exactly one place.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "precinct/pkg/domain-errors"
)

const (
	// StatusSuccess marks a successful envelope.
	StatusSuccess = "success"
	// StatusError marks a failed envelope.
	StatusError = "error"
)

// Envelope is the uniform response body.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a success envelope with the given HTTP status.
func WriteJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Status:  StatusSuccess,
		Data:    data,
		Message: message,
	})
}

// WriteError translates a domain error into an error envelope. Internal errors
// deliberately hide their message so storage and driver details never reach
// clients; every other code surfaces the service-provided message verbatim.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	message := dErrors.GetMessage(err)
	if code == dErrors.CodeInternal {
		message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(Envelope{
		Status:  StatusError,
		Message: message,
	})
}

type normalizer interface{ Normalize() }
type validator interface{ Validate() error }

// DecodeAndPrepare decodes the request body into T, then runs Normalize and
// Validate when T implements them. On failure it writes the error envelope and
// returns ok=false; the handler just returns.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req := new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if n, ok := any(req).(normalizer); ok {
		n.Normalize()
	}
	if v, ok := any(req).(validator); ok {
		if err := v.Validate(); err != nil {
			WriteError(w, err)
			return nil, false
		}
	}
	return req, true
}
