package session

import (
	"strings"
	"time"

	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
)

// DeviceInfo is the coarse device classification captured at login time.
type DeviceInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
}

// Descriptor is the client-assembled session record captured at login attempt
// time, before the credential check completes. Field names are wire contract
// with the console and must not change.
type Descriptor struct {
	SessionID      id.SessionID `json:"session_id"`
	OfficerEmail   string       `json:"officer_email"`
	IPAddress      string       `json:"ip_address"`
	DeviceInfo     DeviceInfo   `json:"device_info"`
	Latitude       *float64     `json:"latitude"`
	Longitude      *float64     `json:"longitude"`
	City           string       `json:"city,omitempty"`
	Country        string       `json:"country,omitempty"`
	LoginTime      time.Time    `json:"login_time"`
	LastActiveTime time.Time    `json:"last_active_time"`
	IsActive       bool         `json:"is_active"`
}

// Normalize trims and lowercases the email so lookups are stable.
func (d *Descriptor) Normalize() {
	d.OfficerEmail = strings.ToLower(strings.TrimSpace(d.OfficerEmail))
}

// Validate checks the descriptor is well-formed enough to persist. The
// descriptor is advisory context, so only identity fields are mandatory.
func (d *Descriptor) Validate() error {
	if d.SessionID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "session_id is required")
	}
	if d.OfficerEmail == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_email is required")
	}
	if d.LoginTime.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "login_time is required")
	}
	return nil
}

// Record is the backend's own copy of a descriptor, keyed by session_id and
// bound to the officer that authenticated with it. The raw user agent is kept
// server-side only, for session history display names.
type Record struct {
	Descriptor Descriptor
	OfficerID  id.OfficerID
	UserAgent  string
}

// ApplyTouch moves last_active_time forward. Timestamps never move backwards;
// stale touches from out-of-order requests are ignored.
func (r *Record) ApplyTouch(now time.Time) {
	if now.After(r.Descriptor.LastActiveTime) {
		r.Descriptor.LastActiveTime = now
	}
}

// ApplyDeactivation marks the session inactive. Idempotent.
func (r *Record) ApplyDeactivation(now time.Time) {
	if !r.Descriptor.IsActive {
		return
	}
	r.Descriptor.IsActive = false
	r.ApplyTouch(now)
}

// Summary is the session history row shown on the settings page.
type Summary struct {
	SessionID      id.SessionID `json:"session_id"`
	Device         string       `json:"device"`
	IPAddress      string       `json:"ip_address,omitempty"`
	Location       string       `json:"location,omitempty"`
	LoginTime      time.Time    `json:"login_time"`
	LastActiveTime time.Time    `json:"last_active_time"`
	IsActive       bool         `json:"is_active"`
	IsCurrent      bool         `json:"is_current"`
}
