package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conference is the aggregate root for a conference and everything it owns:
// rooms, speakers, and presentations. All cross-entity invariants (duplicate
// IDs, dangling room/speaker references, presentation date bounds) are
// enforced by the mutation methods below, so every caller gets the same
// guarantees regardless of where the mutation originates.
//
// Fields are exported for persistence and JSON, but writes must go through
// the methods.
// swagger:model Conference
type Conference struct {
	ID         string                 `json:"id"`
	OwnerID    string                 `json:"owner_id"`
	Title      string                 `json:"title"`
	City       string                 `json:"city"`
	Country    string                 `json:"country"`
	StartDate  time.Time              `json:"start_date"`
	EndDate    time.Time              `json:"end_date"`
	ImageURL   string                 `json:"image_url,omitempty"`
	SyncSource *SynchronizationSource `json:"sync_source,omitempty"`

	Rooms         []*Room         `json:"rooms"`
	Speakers      []*Speaker      `json:"speakers"`
	Presentations []*Presentation `json:"presentations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConference creates a conference with no rooms, speakers, or presentations.
// StartDate and EndDate are date-only values; EndDate must not precede StartDate.
func NewConference(ownerID, title, city, country string, startDate, endDate time.Time) (*Conference, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	startDate = truncateToDay(startDate)
	endDate = truncateToDay(endDate)
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	now := time.Now()
	return &Conference{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		City:      city,
		Country:   country,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddRoom appends a room to the conference. Fails with ErrDuplicateEntity if a
// room with the same ID already exists.
func (c *Conference) AddRoom(room *Room) error {
	if room == nil {
		return fmt.Errorf("%w: room is nil", ErrInvalidInput)
	}
	for _, r := range c.Rooms {
		if r.ID == room.ID {
			return fmt.Errorf("%w: room %s", ErrDuplicateEntity, room.ID)
		}
	}
	c.Rooms = append(c.Rooms, room)
	return nil
}

// AddSpeaker appends a speaker to the conference. Fails with ErrDuplicateEntity
// if a speaker with the same ID already exists.
func (c *Conference) AddSpeaker(speaker *Speaker) error {
	if speaker == nil {
		return fmt.Errorf("%w: speaker is nil", ErrInvalidInput)
	}
	for _, s := range c.Speakers {
		if s.ID == speaker.ID {
			return fmt.Errorf("%w: speaker %s", ErrDuplicateEntity, speaker.ID)
		}
	}
	c.Speakers = append(c.Speakers, speaker)
	return nil
}

// AddPresentation appends a presentation after checking every aggregate
// invariant: unique ID, room reference resolves, all speaker references
// resolve, and the time window lies within the conference dates.
func (c *Conference) AddPresentation(p *Presentation) error {
	if p == nil {
		return fmt.Errorf("%w: presentation is nil", ErrInvalidInput)
	}
	for _, existing := range c.Presentations {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: presentation %s", ErrDuplicateEntity, p.ID)
		}
	}
	if _, ok := c.roomByID(p.RoomID); !ok {
		return fmt.Errorf("%w: room %s", ErrDanglingReference, p.RoomID)
	}
	for _, speakerID := range p.SpeakerIDs {
		if _, ok := c.speakerByID(speakerID); !ok {
			return fmt.Errorf("%w: speaker %s", ErrDanglingReference, speakerID)
		}
	}
	if !c.WithinDates(p.StartTime, p.EndTime) {
		return fmt.Errorf("%w: presentation %s (%s - %s)", ErrOutOfBounds, p.Title,
			p.StartTime.Format(time.RFC3339), p.EndTime.Format(time.RFC3339))
	}
	c.Presentations = append(c.Presentations, p)
	return nil
}

// WithinDates reports whether [start, end] lies within the conference dates.
// EndDate is inclusive as a date, so the upper bound is the following midnight.
func (c *Conference) WithinDates(start, end time.Time) bool {
	upper := c.EndDate.AddDate(0, 0, 1)
	return !start.Before(c.StartDate) && !end.After(upper)
}

// ConfigureSynchronizationSource sets the synchronization source, or clears it
// when src is nil. Validation of the source itself happens in its constructor.
func (c *Conference) ConfigureSynchronizationSource(src *SynchronizationSource) {
	c.SyncSource = src
	c.UpdatedAt = time.Now()
}

func (c *Conference) roomByID(id string) (*Room, bool) {
	for _, r := range c.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (c *Conference) speakerByID(id string) (*Speaker, bool) {
	for _, s := range c.Speakers {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// RoomByExternalID finds a room by the identifier assigned by the schedule
// provider. Rooms created outside reconciliation have no external ID and never match.
func (c *Conference) RoomByExternalID(externalID string) (*Room, bool) {
	if externalID == "" {
		return nil, false
	}
	for _, r := range c.Rooms {
		if r.ExternalID == externalID {
			return r, true
		}
	}
	return nil, false
}

// SpeakerByExternalID finds a speaker by the provider-assigned identifier.
func (c *Conference) SpeakerByExternalID(externalID string) (*Speaker, bool) {
	if externalID == "" {
		return nil, false
	}
	for _, s := range c.Speakers {
		if s.ExternalID == externalID {
			return s, true
		}
	}
	return nil, false
}

// PresentationByExternalID finds a presentation by the provider-assigned identifier.
func (c *Conference) PresentationByExternalID(externalID string) (*Presentation, bool) {
	if externalID == "" {
		return nil, false
	}
	for _, p := range c.Presentations {
		if p.ExternalID == externalID {
			return p, true
		}
	}
	return nil, false
}

// ConferenceRepository defines whole-aggregate storage for conferences.
// Update replaces the entire aggregate (root row plus all child collections);
// there are no partial updates.
type ConferenceRepository interface {
	Create(ctx context.Context, conference *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	Update(ctx context.Context, conference *Conference) error
	ListByOwnerID(ctx context.Context, ownerID string, p PaginationParams) ([]*Conference, int, error)
}

// ConferenceService defines the business logic for conference management.
type ConferenceService interface {
	CreateConference(ctx context.Context, conference *Conference) error
	GetConferenceByID(ctx context.Context, id string) (*Conference, error)
	ListMyConferences(ctx context.Context, ownerID string, p PaginationParams) ([]*Conference, int, error)
	// ConfigureSyncSource sets (or clears, when src is nil) the synchronization
	// source. Only the conference owner may configure it.
	ConfigureSyncSource(ctx context.Context, conferenceID, userID string, src *SynchronizationSource) error
}
