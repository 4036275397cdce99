package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Presentation represents a talk held in one room with at least one speaker.
// Unlike rooms and speakers, presentations are updated in place when
// reconciliation re-matches them by external ID.
// swagger:model Presentation
type Presentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	RoomID      string    `json:"room_id"`
	SpeakerIDs  []string  `json:"speaker_ids"`
	ExternalID  string    `json:"external_id,omitempty"`
}

// NewPresentation creates a presentation with a generated ID. EndTime must be
// after StartTime and at least one speaker is required. Referential integrity
// against the conference's rooms and speakers is checked by
// Conference.AddPresentation, not here.
func NewPresentation(title, description string, start, end time.Time, roomID string, speakerIDs []string, externalID string) (*Presentation, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: presentation title is required", ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: presentation must end after it starts", ErrInvalidInput)
	}
	if roomID == "" {
		return nil, fmt.Errorf("%w: presentation room is required", ErrInvalidInput)
	}
	if len(speakerIDs) == 0 {
		return nil, fmt.Errorf("%w: presentation needs at least one speaker", ErrInvalidInput)
	}
	ids := make([]string, len(speakerIDs))
	copy(ids, speakerIDs)
	return &Presentation{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		RoomID:      roomID,
		SpeakerIDs:  ids,
		ExternalID:  externalID,
	}, nil
}

// UpdateDetails replaces title, description, and the time window. Fails when
// the new window is empty or inverted; the presentation is left unchanged on error.
func (p *Presentation) UpdateDetails(title, description string, start, end time.Time) error {
	if title == "" {
		return fmt.Errorf("%w: presentation title is required", ErrInvalidInput)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: presentation must end after it starts", ErrInvalidInput)
	}
	p.Title = title
	p.Description = description
	p.StartTime = start
	p.EndTime = end
	return nil
}

// ChangeRoom moves the presentation to another room. Fails on an empty room ID.
func (p *Presentation) ChangeRoom(roomID string) error {
	if roomID == "" {
		return fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}
	p.RoomID = roomID
	return nil
}

// AddSpeaker assigns a speaker. Fails if the speaker is already assigned.
func (p *Presentation) AddSpeaker(speakerID string) error {
	if speakerID == "" {
		return fmt.Errorf("%w: speaker id is required", ErrInvalidInput)
	}
	for _, id := range p.SpeakerIDs {
		if id == speakerID {
			return fmt.Errorf("%w: speaker %s already assigned", ErrDuplicateEntity, speakerID)
		}
	}
	p.SpeakerIDs = append(p.SpeakerIDs, speakerID)
	return nil
}

// RemoveSpeaker unassigns a speaker. Fails if the speaker is not assigned or
// if removing it would leave the presentation without speakers.
func (p *Presentation) RemoveSpeaker(speakerID string) error {
	idx := -1
	for i, id := range p.SpeakerIDs {
		if id == speakerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: speaker %s not assigned", ErrDanglingReference, speakerID)
	}
	if len(p.SpeakerIDs) == 1 {
		return fmt.Errorf("%w: presentation needs at least one speaker", ErrInvalidInput)
	}
	p.SpeakerIDs = append(p.SpeakerIDs[:idx], p.SpeakerIDs[idx+1:]...)
	return nil
}
