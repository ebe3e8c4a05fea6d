// Package domain holds the typed identifiers shared across modules. Distinct
// UUID types keep an officer ID from ever being passed where a session or
// station ID is expected; the compiler enforces what code review would miss.
package domain

import (
	"github.com/google/uuid"

	dErrors "precinct/pkg/domain-errors"
)

type (
	// OfficerID identifies a police officer account.
	OfficerID uuid.UUID
	// SessionID identifies one login session descriptor.
	SessionID uuid.UUID
	// StationID identifies the police station an officer or record belongs to.
	StationID uuid.UUID
	// CrimeID identifies a crime record.
	CrimeID uuid.UUID
	// ApplicationID identifies an application (correspondence) record.
	ApplicationID uuid.UUID
	// RuleID identifies a data-rule taxonomy entry.
	RuleID uuid.UUID
)

func (id OfficerID) String() string     { return uuid.UUID(id).String() }
func (id SessionID) String() string     { return uuid.UUID(id).String() }
func (id StationID) String() string     { return uuid.UUID(id).String() }
func (id CrimeID) String() string       { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id RuleID) String() string        { return uuid.UUID(id).String() }

func (id OfficerID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id StationID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CrimeID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RuleID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps typed IDs rendering as canonical UUID strings in JSON
// bodies and query logs. Defined types do not inherit uuid.UUID's methods.

func (id OfficerID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id SessionID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id StationID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id CrimeID) MarshalText() ([]byte, error)       { return marshalID(uuid.UUID(id)) }
func (id ApplicationID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id RuleID) MarshalText() ([]byte, error)        { return marshalID(uuid.UUID(id)) }

func (id *OfficerID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *SessionID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *StationID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *CrimeID) UnmarshalText(b []byte) error       { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ApplicationID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *RuleID) UnmarshalText(b []byte) error        { return unmarshalID((*uuid.UUID)(id), b) }

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func unmarshalID(dst *uuid.UUID, b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Parsing happens once at trust boundaries.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return parsed, nil
}

// ParseOfficerID parses and validates an officer ID from its string form.
func ParseOfficerID(raw string) (OfficerID, error) {
	parsed, err := parseUUID(raw, "officer_id")
	return OfficerID(parsed), err
}

// ParseSessionID parses and validates a session ID from its string form.
func ParseSessionID(raw string) (SessionID, error) {
	parsed, err := parseUUID(raw, "session_id")
	return SessionID(parsed), err
}

// ParseStationID parses and validates a station ID from its string form.
func ParseStationID(raw string) (StationID, error) {
	parsed, err := parseUUID(raw, "station_id")
	return StationID(parsed), err
}

// ParseCrimeID parses and validates a crime record ID from its string form.
func ParseCrimeID(raw string) (CrimeID, error) {
	parsed, err := parseUUID(raw, "crime_id")
	return CrimeID(parsed), err
}

// ParseApplicationID parses and validates an application ID from its string form.
func ParseApplicationID(raw string) (ApplicationID, error) {
	parsed, err := parseUUID(raw, "application_id")
	return ApplicationID(parsed), err
}

// ParseRuleID parses and validates a data-rule ID from its string form.
func ParseRuleID(raw string) (RuleID, error) {
	parsed, err := parseUUID(raw, "rule_id")
	return RuleID(parsed), err
}
