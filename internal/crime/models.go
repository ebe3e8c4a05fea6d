// Package crime owns crime records: the reports officers file, investigate,
// and close.
package crime

import (
	"strings"
	"time"

	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
)

// Status tracks a record through its investigation lifecycle.
type Status string

const (
	StatusOpen               Status = "open"
	StatusUnderInvestigation Status = "under_investigation"
	StatusClosed             Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusUnderInvestigation, StatusClosed:
		return true
	}
	return false
}

// Record is a filed crime report. Part/type/subtype reference data-rule
// taxonomy entries; the subtype is optional.
type Record struct {
	ID            id.CrimeID   `json:"crime_id"`
	StationID     id.StationID `json:"station_id"`
	PartRuleID    id.RuleID    `json:"part_rule_id"`
	TypeRuleID    id.RuleID    `json:"type_rule_id"`
	SubtypeRuleID id.RuleID    `json:"subtype_rule_id"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	Status        Status       `json:"status"`
	OccurredAt    time.Time    `json:"occurred_at"`
	ReportedBy    id.OfficerID `json:"reported_by"`
	AssignedTo    id.OfficerID `json:"assigned_to"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	IsDeleted     bool         `json:"-"`
}

// CreateInput carries the fields for a new report.
type CreateInput struct {
	StationID     id.StationID `json:"station_id"`
	PartRuleID    id.RuleID    `json:"part_rule_id"`
	TypeRuleID    id.RuleID    `json:"type_rule_id"`
	SubtypeRuleID id.RuleID    `json:"subtype_rule_id"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

func (in *CreateInput) Normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
}

func (in *CreateInput) Validate() error {
	if in.PartRuleID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "part_rule_id is required")
	}
	if in.TypeRuleID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "type_rule_id is required")
	}
	if in.Description == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "description is required")
	}
	if in.OccurredAt.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "occurred_at is required")
	}
	if in.StationID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "station_id is required")
	}
	return nil
}

// UpdateInput carries optional edits. Nil fields are left unchanged.
type UpdateInput struct {
	Description *string       `json:"description"`
	Location    *string       `json:"location"`
	Status      *Status       `json:"status"`
	AssignedTo  *id.OfficerID `json:"assigned_to"`
}

func (in *UpdateInput) Normalize() {
	if in.Description != nil {
		*in.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		*in.Location = strings.TrimSpace(*in.Location)
	}
}

func (in *UpdateInput) Validate() error {
	if in.Status != nil && !in.Status.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "status must be open, under_investigation, or closed")
	}
	return nil
}

// Apply folds the edits into the record. Closed records accept no further
// edits; the caller checks that first.
func (r *Record) Apply(in UpdateInput, now time.Time) {
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Location != nil {
		r.Location = *in.Location
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
	if in.AssignedTo != nil {
		r.AssignedTo = *in.AssignedTo
	}
	r.UpdatedAt = now
}
