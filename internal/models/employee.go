package models

import "time"

// Role enumerates employee roles within a client company.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleAgent   Role = "agent"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleAgent:
		return true
	}
	return false
}

// InvitationStatus tracks where an employee sits in the invitation workflow.
type InvitationStatus string

const (
	InvitationUninvited InvitationStatus = "uninvited"
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
)

// InvitationResponse is the answer an employee gives to a pending invitation.
type InvitationResponse string

const (
	InvitationResponseAccepted InvitationResponse = "accepted"
	InvitationResponseDeclined InvitationResponse = "declined"
)

// Employee is a platform user. ClientID is nil while the employee is in the
// unassigned pool; it is set exactly through the invitation workflow. Email is
// unique across all employees regardless of client.
type Employee struct {
	BaseModel

	ClientID *string `gorm:"type:uuid;index" json:"clientId"`
	Name     string  `gorm:"not null" json:"name"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	Role     Role    `gorm:"not null" json:"role"`

	InvitationStatus InvitationStatus `gorm:"not null;default:uninvited" json:"invitationStatus"`
	InvitationDate   time.Time        `gorm:"index" json:"invitationDate"`
}

// Assigned reports whether the employee belongs to a client company, which
// requires both a client link and an accepted invitation.
func (e *Employee) Assigned() bool {
	return e.ClientID != nil && e.InvitationStatus == InvitationAccepted
}
