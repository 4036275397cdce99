package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyMember is returned when a user joins a group they already belong to.
var ErrAlreadyMember = errors.New("already a group member")

// Group is a named attendee group within a conference (e.g. a company
// delegation or a workshop cohort).
// swagger:model Group
type Group struct {
	ID           string    `json:"id"`
	ConferenceID string    `json:"conference_id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewGroup creates a group. ID is set by the repository on create.
func NewGroup(conferenceID, name, ownerID string, createdAt, updatedAt time.Time) *Group {
	return &Group{
		ConferenceID: conferenceID,
		Name:         name,
		OwnerID:      ownerID,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// GroupMember represents a user's membership in a group.
// swagger:model GroupMember
type GroupMember struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	LastName string    `json:"last_name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupRepository defines storage for groups and their memberships.
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	ListByConferenceID(ctx context.Context, conferenceID string) ([]*Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]*GroupMember, error)
}

// GroupService defines the business logic for attendee groups.
type GroupService interface {
	CreateGroup(ctx context.Context, conferenceID, name, ownerID string) (*Group, error)
	ListGroups(ctx context.Context, conferenceID string) ([]*Group, error)
	// JoinGroup adds the user to the group. Returns ErrAlreadyMember when the
	// user already belongs to it.
	JoinGroup(ctx context.Context, groupID, userID string) error
	LeaveGroup(ctx context.Context, groupID, userID string) error
	// ListMembers returns the group's roster. Only the group owner and
	// current members may see it.
	ListMembers(ctx context.Context, groupID, callerID string) ([]*GroupMember, error)
}
