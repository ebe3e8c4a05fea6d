// Package datarules owns the editable taxonomy behind crime and application
// forms: crime parts/types/subtypes and application types/classifications,
// arranged as a tree of rules.
package datarules

import (
	"strings"
	"time"

	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
)

// Kind names one level of the taxonomy.
type Kind string

const (
	KindCrimePart                 Kind = "crime_part"
	KindCrimeType                 Kind = "crime_type"
	KindCrimeSubtype              Kind = "crime_subtype"
	KindApplicationType           Kind = "application_type"
	KindApplicationClassification Kind = "application_classification"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCrimePart, KindCrimeType, KindCrimeSubtype,
		KindApplicationType, KindApplicationClassification:
		return true
	}
	return false
}

// Rule is one node of the taxonomy tree. ParentID is nil-UUID for roots.
type Rule struct {
	ID        id.RuleID `json:"rule_id"`
	Kind      Kind      `json:"kind"`
	ParentID  id.RuleID `json:"parent_id"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the fields for a new rule.
type CreateInput struct {
	Kind      Kind      `json:"kind"`
	ParentID  id.RuleID `json:"parent_id"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
}

func (in *CreateInput) Normalize() {
	in.Label = strings.TrimSpace(in.Label)
}

func (in *CreateInput) Validate() error {
	if !in.Kind.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "kind is not a known taxonomy level")
	}
	if in.Label == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "label is required")
	}
	return nil
}

// UpdateInput carries optional edits. Nil fields are left unchanged.
type UpdateInput struct {
	Label     *string `json:"label"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

func (in *UpdateInput) Normalize() {
	if in.Label != nil {
		*in.Label = strings.TrimSpace(*in.Label)
	}
}

func (in *UpdateInput) Validate() error {
	if in.Label != nil && *in.Label == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "label cannot be blank")
	}
	return nil
}

// Apply folds the edits into the rule.
func (r *Rule) Apply(in UpdateInput, now time.Time) {
	if in.Label != nil {
		r.Label = *in.Label
	}
	if in.SortOrder != nil {
		r.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	r.UpdatedAt = now
}
