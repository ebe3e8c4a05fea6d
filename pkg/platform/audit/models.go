package audit

import (
	"context"
	"time"

	id "precinct/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. Categories
// drive retention and routing: security events feed monitoring pipelines,
// operations events can be sampled with shorter retention.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring.
	// Examples: auth failures, session revocations, officer deactivation.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and visibility.
	// Examples: record CRUD, session creation, routine access patterns.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Kept
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	OfficerID id.OfficerID
	StationID id.StationID
	SessionID id.SessionID
	Action    string
	Subject   string
	Reason    string
	// Email is populated for auth events where no officer ID exists yet
	// (failed logins against unknown accounts).
	Email string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// ClientIP records where the action originated, when known.
	ClientIP string
}

// AuditEvent names the actions the system records.
type AuditEvent string

const (
	// Auth and session events
	EventSessionCreated  AuditEvent = "session_created"
	EventSessionRevoked  AuditEvent = "session_revoked"
	EventAuthFailed      AuditEvent = "auth_failed"
	EventProfileAccessed AuditEvent = "profile_accessed"

	// Officer management events
	EventOfficerCreated     AuditEvent = "officer_created"
	EventOfficerUpdated     AuditEvent = "officer_updated"
	EventOfficerDeactivated AuditEvent = "officer_deactivated"

	// Record events (crime and application CRUD)
	EventRecordCreated AuditEvent = "record_created"
	EventRecordUpdated AuditEvent = "record_updated"
	EventRecordDeleted AuditEvent = "record_deleted"

	// Data-rule taxonomy events
	EventRuleChanged AuditEvent = "rule_changed"
)

// Store persists audit events. Implementations must be append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]Event, error)
}
