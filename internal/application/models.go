// Package application owns citizen applications and correspondence filed with
// a station: the request body, its taxonomy references, and its review state.
package application

import (
	"strings"
	"time"

	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
)

// Status tracks an application through review.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is a filed request awaiting officer review. TypeRuleID and
// ClassificationRuleID reference data rules so the taxonomy stays editable
// without schema changes.
type Application struct {
	ID                   id.ApplicationID `json:"application_id"`
	StationID            id.StationID     `json:"station_id"`
	TypeRuleID           id.RuleID        `json:"type_rule_id"`
	ClassificationRuleID id.RuleID        `json:"classification_rule_id"`
	Subject              string           `json:"subject"`
	Body                 string           `json:"body"`
	ApplicantName        string           `json:"applicant_name"`
	ApplicantContact     string           `json:"applicant_contact"`
	Status               Status           `json:"status"`
	ReviewedBy           id.OfficerID     `json:"reviewed_by"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	IsDeleted            bool             `json:"-"`
}

// CreateInput carries the fields for a new application.
type CreateInput struct {
	StationID            id.StationID `json:"station_id"`
	TypeRuleID           id.RuleID    `json:"type_rule_id"`
	ClassificationRuleID id.RuleID    `json:"classification_rule_id"`
	Subject              string       `json:"subject"`
	Body                 string       `json:"body"`
	ApplicantName        string       `json:"applicant_name"`
	ApplicantContact     string       `json:"applicant_contact"`
}

func (in *CreateInput) Normalize() {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Body = strings.TrimSpace(in.Body)
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.ApplicantContact = strings.TrimSpace(in.ApplicantContact)
}

func (in *CreateInput) Validate() error {
	if in.Subject == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "subject is required")
	}
	if in.ApplicantName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "applicant_name is required")
	}
	if in.StationID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "station_id is required")
	}
	if in.TypeRuleID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "type_rule_id is required")
	}
	return nil
}

// UpdateInput carries review edits. Nil fields are left unchanged.
type UpdateInput struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	Status  *Status `json:"status"`
}

func (in *UpdateInput) Normalize() {
	if in.Subject != nil {
		*in.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Body != nil {
		*in.Body = strings.TrimSpace(*in.Body)
	}
}

func (in *UpdateInput) Validate() error {
	if in.Subject != nil && *in.Subject == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "subject cannot be blank")
	}
	if in.Status != nil && !in.Status.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "status must be submitted, in_review, approved, or rejected")
	}
	return nil
}

// Apply folds the edits into the application. A status change records the
// reviewing officer.
func (a *Application) Apply(in UpdateInput, now time.Time, by id.OfficerID) {
	if in.Subject != nil {
		a.Subject = *in.Subject
	}
	if in.Body != nil {
		a.Body = *in.Body
	}
	if in.Status != nil {
		a.Status = *in.Status
		a.ReviewedBy = by
	}
	a.UpdatedAt = now
}

// Terminal reports whether the application has reached a final decision.
func (a *Application) Terminal() bool {
	return a.Status == StatusApproved || a.Status == StatusRejected
}
