package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Speaker represents a speaker at the conference. ExternalID is the schedule
// provider's identifier; like rooms, speakers follow a create-or-reuse policy
// and are never updated in place by reconciliation.
// swagger:model Speaker
type Speaker struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TagLine           string `json:"tag_line,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	ExternalID        string `json:"external_id,omitempty"`
}

// NewSpeaker creates a speaker with a generated ID.
func NewSpeaker(name, tagLine, bio, profilePictureURL, externalID string) (*Speaker, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: speaker name is required", ErrInvalidInput)
	}
	return &Speaker{
		ID:                uuid.NewString(),
		Name:              name,
		TagLine:           tagLine,
		Bio:               bio,
		ProfilePictureURL: profilePictureURL,
		ExternalID:        externalID,
	}, nil
}
