// Package officer owns police-officer accounts: the credential check behind
// login, the profile the console renders, and officer administration.
package officer

import (
	"strings"
	"time"

	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
)

// Status is the lifecycle state of an officer account.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusRetired   Status = "retired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusRetired:
		return true
	}
	return false
}

// Officer is the full account record. PasswordHash never leaves the package;
// the Profile view is what goes over the wire.
type Officer struct {
	ID           id.OfficerID
	StationID    id.StationID
	Name         string
	Username     string
	Email        string
	Designation  string
	BadgeNumber  string
	MobileNumber string
	JoiningDate  time.Time
	Status       Status
	PasswordHash string

	IsActive  bool
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy id.OfficerID
	UpdatedBy id.OfficerID
	DeletedAt *time.Time
	DeletedBy id.OfficerID
}

// Profile is the wire shape of an officer account. Field names are contract
// with the console and must not change.
type Profile struct {
	OfficerID          id.OfficerID `json:"officer_id"`
	StationID          id.StationID `json:"station_id"`
	OfficerName        string       `json:"officer_name"`
	OfficerUsername    string       `json:"officer_username"`
	OfficerEmail       string       `json:"officer_email"`
	OfficerDesignation string       `json:"officer_designation"`
	OfficerBadgeNumber string       `json:"officer_badge_number"`
	OfficerMobile      string       `json:"officer_mobile_number"`
	OfficerJoiningDate time.Time    `json:"officer_joining_date"`
	OfficerStatus      Status       `json:"officer_status"`
	IsActive           bool         `json:"is_active"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ToProfile projects the account onto its wire shape.
func (o *Officer) ToProfile() Profile {
	return Profile{
		OfficerID:          o.ID,
		StationID:          o.StationID,
		OfficerName:        o.Name,
		OfficerUsername:    o.Username,
		OfficerEmail:       o.Email,
		OfficerDesignation: o.Designation,
		OfficerBadgeNumber: o.BadgeNumber,
		OfficerMobile:      o.MobileNumber,
		OfficerJoiningDate: o.JoiningDate,
		OfficerStatus:      o.Status,
		IsActive:           o.IsActive,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// CanAuthenticate reports whether the account may log in at all.
func (o *Officer) CanAuthenticate() bool {
	return o.IsActive && !o.IsDeleted && o.Status == StatusActive
}

// CreateInput carries the fields an administrator supplies for a new account.
type CreateInput struct {
	StationID    id.StationID `json:"station_id"`
	Name         string       `json:"officer_name"`
	Username     string       `json:"officer_username"`
	Email        string       `json:"officer_email"`
	Designation  string       `json:"officer_designation"`
	BadgeNumber  string       `json:"officer_badge_number"`
	MobileNumber string       `json:"officer_mobile_number"`
	JoiningDate  time.Time    `json:"officer_joining_date"`
	Password     string       `json:"password"`
}

func (in *CreateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Designation = strings.TrimSpace(in.Designation)
	in.BadgeNumber = strings.TrimSpace(in.BadgeNumber)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
}

func (in *CreateInput) Validate() error {
	if in.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return dErrors.New(dErrors.CodeInvalidInput, "a valid officer_email is required")
	}
	if in.BadgeNumber == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_badge_number is required")
	}
	if len(in.Password) < 8 {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	if in.StationID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "station_id is required")
	}
	return nil
}

// UpdateInput carries optional account edits. Nil fields are left unchanged.
type UpdateInput struct {
	Name         *string `json:"officer_name"`
	Designation  *string `json:"officer_designation"`
	MobileNumber *string `json:"officer_mobile_number"`
	Status       *Status `json:"officer_status"`
}

func (in *UpdateInput) Normalize() {
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
	}
	if in.Designation != nil {
		*in.Designation = strings.TrimSpace(*in.Designation)
	}
	if in.MobileNumber != nil {
		*in.MobileNumber = strings.TrimSpace(*in.MobileNumber)
	}
}

func (in *UpdateInput) Validate() error {
	if in.Name != nil && *in.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_name cannot be blank")
	}
	if in.Status != nil && !in.Status.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_status must be active, suspended, or retired")
	}
	return nil
}

// Apply folds the edits into the account.
func (o *Officer) Apply(in UpdateInput, now time.Time, by id.OfficerID) {
	if in.Name != nil {
		o.Name = *in.Name
	}
	if in.Designation != nil {
		o.Designation = *in.Designation
	}
	if in.MobileNumber != nil {
		o.MobileNumber = *in.MobileNumber
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	o.UpdatedAt = now
	o.UpdatedBy = by
}
