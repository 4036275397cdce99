package domain

import (
	"context"
	"time"
)

// ConferenceRegistration represents an attendee's registration for a
// conference. CheckedInAt is set once the attendee is checked in on site.
// swagger:model ConferenceRegistration
type ConferenceRegistration struct {
	ID           string     `json:"id"`
	ConferenceID string     `json:"conference_id"`
	UserID       string     `json:"user_id"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewConferenceRegistration creates a registration. ID is set by the repository on create.
func NewConferenceRegistration(conferenceID, userID string, createdAt, updatedAt time.Time) *ConferenceRegistration {
	return &ConferenceRegistration{
		ConferenceID: conferenceID,
		UserID:       userID,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// RegistrationRepository defines storage operations for conference registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *ConferenceRegistration) error
	GetByConferenceAndUser(ctx context.Context, conferenceID, userID string) (*ConferenceRegistration, error)
	ListByUserID(ctx context.Context, userID string) ([]*ConferenceRegistration, error)
	SetCheckedIn(ctx context.Context, registrationID string, at time.Time) error
}

// RegistrationWithConference bundles a registration with its conference.
type RegistrationWithConference struct {
	Registration *ConferenceRegistration `json:"registration"`
	Conference   *Conference             `json:"conference"`
}

// AttendeeService defines attendee-facing operations: registering for a
// conference, recording attendance, and listing registered conferences.
type AttendeeService interface {
	// RegisterForConference registers the user. Returns (reg, created, err):
	// created is false when the user was already registered (idempotent).
	RegisterForConference(ctx context.Context, conferenceID, userID string) (*ConferenceRegistration, bool, error)
	// CheckIn records attendance for an existing registration. Idempotent:
	// checking in twice keeps the first timestamp.
	CheckIn(ctx context.Context, conferenceID, userID string) (*ConferenceRegistration, error)
	ListMyConferences(ctx context.Context, userID string) ([]*RegistrationWithConference, error)
}
