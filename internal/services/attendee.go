package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencehub/internal/domain"
)

type attendeeService struct {
	conferenceRepo   domain.ConferenceRepository
	registrationRepo domain.RegistrationRepository
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(conferenceRepo domain.ConferenceRepository, registrationRepo domain.RegistrationRepository) domain.AttendeeService {
	return &attendeeService{
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *attendeeService) RegisterForConference(ctx context.Context, conferenceID, userID string) (*domain.ConferenceRegistration, bool, error) {
	// Ensure the conference exists.
	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get conference: %w", err)
	}

	// Registration is idempotent: a second attempt returns the existing one.
	if existing, err := s.registrationRepo.GetByConferenceAndUser(ctx, conferenceID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get registration: %w", err)
	}

	now := time.Now()
	reg := domain.NewConferenceRegistration(conferenceID, userID, now, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, false, fmt.Errorf("create registration: %w", err)
	}
	return reg, true, nil
}

func (s *attendeeService) CheckIn(ctx context.Context, conferenceID, userID string) (*domain.ConferenceRegistration, error) {
	reg, err := s.registrationRepo.GetByConferenceAndUser(ctx, conferenceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	// Idempotent: the first check-in timestamp sticks.
	if reg.CheckedInAt != nil {
		return reg, nil
	}

	now := time.Now()
	if err := s.registrationRepo.SetCheckedIn(ctx, reg.ID, now); err != nil {
		return nil, fmt.Errorf("set checked in: %w", err)
	}
	reg.CheckedInAt = &now
	reg.UpdatedAt = now
	return reg, nil
}

func (s *attendeeService) ListMyConferences(ctx context.Context, userID string) ([]*domain.RegistrationWithConference, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.RegistrationWithConference{}, nil
	}

	conferencesByID := make(map[string]*domain.Conference)
	result := make([]*domain.RegistrationWithConference, 0, len(regs))
	for _, reg := range regs {
		conf, ok := conferencesByID[reg.ConferenceID]
		if !ok {
			conf, err = s.conferenceRepo.GetByID(ctx, reg.ConferenceID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Conference deleted but registration remains; skip the entry.
					continue
				}
				return nil, fmt.Errorf("get conference for registration: %w", err)
			}
			conferencesByID[reg.ConferenceID] = conf
		}
		result = append(result, &domain.RegistrationWithConference{
			Registration: reg,
			Conference:   conf,
		})
	}
	return result, nil
}
