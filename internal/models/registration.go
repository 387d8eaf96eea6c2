package models

import (
	"slices"
	"time"
)

// RegistrationStatus labels where an application is in review.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusReviewed RegistrationStatus = "reviewed"
	RegistrationStatusAccepted RegistrationStatus = "accepted"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// Valid reports whether s is one of the four known statuses. Any valid status may follow any other.
func (s RegistrationStatus) Valid() bool {
	return slices.Contains(RegistrationStatuses, s)
}

// RegistrationStatuses lists every status in display order.
var RegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusReviewed,
	RegistrationStatusAccepted,
	RegistrationStatusRejected,
}

// Registration is one applicant's submission to a program.
type Registration struct {
	ID                 int64              `db:"id" json:"id"`
	RegistrationNumber string             `db:"registration_number" json:"registrationNumber"`
	FullName           string             `db:"full_name" json:"fullName"`
	Email              string             `db:"email" json:"email"`
	Phone              string             `db:"phone" json:"phone"`
	DateOfBirth        string             `db:"date_of_birth" json:"dateOfBirth"`
	Education          string             `db:"education" json:"education"`
	Address            string             `db:"address" json:"address"`
	ProgramID          int64              `db:"program_id" json:"programId"`
	Status             RegistrationStatus `db:"status" json:"status"`
	Notes              *string            `db:"notes" json:"notes"`
	CreatedAt          time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updatedAt"`
}

// RegistrationStatusView is the public answer to a status check. It omits contact and personal details.
type RegistrationStatusView struct {
	RegistrationNumber string             `json:"registrationNumber"`
	FullName           string             `json:"fullName"`
	ProgramID          int64              `json:"programId"`
	ProgramTitle       string             `json:"programTitle,omitempty"`
	Status             RegistrationStatus `json:"status"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// RegistrationFilter narrows registration listings.
type RegistrationFilter struct {
	ListParams
	Search    string
	Status    RegistrationStatus
	ProgramID *int64
}
