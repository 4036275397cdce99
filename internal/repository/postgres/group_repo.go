package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencehub/internal/domain"
)

type groupRepository struct {
	DB *sql.DB
}

// NewGroupRepository returns a domain.GroupRepository implemented with Postgres.
func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	query := `
		INSERT INTO groups (conference_id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, g.ConferenceID, g.Name, g.OwnerID, g.CreatedAt, g.UpdatedAt).
		Scan(&g.ID)
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, conference_id, name, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	g := &domain.Group{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&g.ID, &g.ConferenceID, &g.Name, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) ListByConferenceID(ctx context.Context, conferenceID string) ([]*domain.Group, error) {
	query := `
		SELECT id, conference_id, name, owner_id, created_at, updated_at
		FROM groups
		WHERE conference_id = $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		g := &domain.Group{}
		if err := rows.Scan(&g.ID, &g.ConferenceID, &g.Name, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	query := `
		SELECT m.group_id, m.user_id, u.name, u.last_name, u.email, m.joined_at
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.GroupMember, 0)
	for rows.Next() {
		m := &domain.GroupMember{}
		var name, lastName sql.NullString
		if err := rows.Scan(&m.GroupID, &m.UserID, &name, &lastName, &m.Email, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.Name = name.String
		m.LastName = lastName.String
		members = append(members, m)
	}
	return members, rows.Err()
}
