package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Room represents a physical room or track at the conference. ExternalID is
// the schedule provider's identifier, used only to match the same room across
// reconciliation runs; it is empty for rooms created manually.
//
// Reconciliation never updates a room in place: once matched by external ID
// the first-seen name and capacity stay authoritative.
// swagger:model Room
type Room struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	ExternalID string `json:"external_id,omitempty"`
}

// NewRoom creates a room with a generated ID. Capacity must be positive.
func NewRoom(name string, capacity int, externalID string) (*Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: room capacity must be positive", ErrInvalidInput)
	}
	return &Room{
		ID:         uuid.NewString(),
		Name:       name,
		Capacity:   capacity,
		ExternalID: externalID,
	}, nil
}
