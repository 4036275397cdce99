package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencehub/internal/domain"
)

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	syncQueue      domain.SyncQueue
	contextTimeout time.Duration
}

// NewConferenceService creates a ConferenceService. syncQueue may be nil when
// asynchronous reconciliation is disabled (e.g. in tests).
func NewConferenceService(conferenceRepo domain.ConferenceRepository, syncQueue domain.SyncQueue, timeout time.Duration) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		syncQueue:      syncQueue,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, conference *domain.Conference) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if conference.OwnerID == "" {
		return fmt.Errorf("%w: conference owner is required", domain.ErrInvalidInput)
	}

	if err := s.conferenceRepo.Create(ctx, conference); err != nil {
		return fmt.Errorf("create conference: %w", err)
	}

	// Conference-created trigger: schedule a reconciliation run when a
	// source is already configured.
	if conference.SyncSource.Configured() && s.syncQueue != nil {
		s.syncQueue.Enqueue(conference.ID)
	}
	return nil
}

func (s *conferenceService) GetConferenceByID(ctx context.Context, id string) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conference, nil
}

func (s *conferenceService) ListMyConferences(ctx context.Context, ownerID string, p domain.PaginationParams) ([]*domain.Conference, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, total, err := s.conferenceRepo.ListByOwnerID(ctx, ownerID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list conferences: %w", err)
	}
	if conferences == nil {
		conferences = []*domain.Conference{}
	}
	return conferences, total, nil
}

func (s *conferenceService) ConfigureSyncSource(ctx context.Context, conferenceID, userID string, src *domain.SynchronizationSource) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get conference: %w", err)
	}
	if conference.OwnerID != userID {
		return domain.ErrForbidden
	}

	conference.ConfigureSynchronizationSource(src)
	if err := s.conferenceRepo.Update(ctx, conference); err != nil {
		return fmt.Errorf("update conference: %w", err)
	}
	return nil
}
