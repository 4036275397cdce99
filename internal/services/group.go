package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencehub/internal/domain"
)

type groupService struct {
	groupRepo        domain.GroupRepository
	conferenceRepo   domain.ConferenceRepository
	registrationRepo domain.RegistrationRepository
}

// NewGroupService creates a GroupService with the given repositories.
func NewGroupService(groupRepo domain.GroupRepository, conferenceRepo domain.ConferenceRepository, registrationRepo domain.RegistrationRepository) domain.GroupService {
	return &groupService{
		groupRepo:        groupRepo,
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, conferenceID, name, ownerID string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}

	now := time.Now()
	group := domain.NewGroup(conferenceID, name, ownerID, now, now)
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	// The creator joins their own group.
	if err := s.groupRepo.AddMember(ctx, group.ID, ownerID); err != nil && !errors.Is(err, domain.ErrAlreadyMember) {
		return nil, fmt.Errorf("add owner to group: %w", err)
	}
	return group, nil
}

func (s *groupService) ListGroups(ctx context.Context, conferenceID string) ([]*domain.Group, error) {
	groups, err := s.groupRepo.ListByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return groups, nil
}

func (s *groupService) JoinGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get group: %w", err)
	}

	// Only registered attendees of the conference may join its groups.
	if _, err := s.registrationRepo.GetByConferenceAndUser(ctx, group.ConferenceID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get registration: %w", err)
	}

	if err := s.groupRepo.AddMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *groupService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get group: %w", err)
	}
	// Leaving is idempotent: removing a non-member is a no-op.
	if err := s.groupRepo.RemoveMember(ctx, groupID, userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *groupService) ListMembers(ctx context.Context, groupID, callerID string) ([]*domain.GroupMember, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	// The roster is visible to the group owner and to members only.
	if group.OwnerID != callerID {
		isMember := false
		for _, m := range members {
			if m.UserID == callerID {
				isMember = true
				break
			}
		}
		if !isMember {
			return nil, domain.ErrForbidden
		}
	}

	if members == nil {
		members = []*domain.GroupMember{}
	}
	return members, nil
}
