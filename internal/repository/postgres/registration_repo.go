package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"conferencehub/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns a domain.RegistrationRepository implemented with Postgres.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.ConferenceRegistration) error {
	query := `
		INSERT INTO conference_registrations (conference_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, reg.ConferenceID, reg.UserID, reg.CreatedAt, reg.UpdatedAt).
		Scan(&reg.ID)
}

func (r *registrationRepository) GetByConferenceAndUser(ctx context.Context, conferenceID, userID string) (*domain.ConferenceRegistration, error) {
	query := `
		SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at
		FROM conference_registrations
		WHERE conference_id = $1 AND user_id = $2
	`
	reg := &domain.ConferenceRegistration{}
	var checkedIn sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, conferenceID, userID).
		Scan(&reg.ID, &reg.ConferenceID, &reg.UserID, &checkedIn, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if checkedIn.Valid {
		reg.CheckedInAt = &checkedIn.Time
	}
	return reg, nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.ConferenceRegistration, error) {
	query := `
		SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at
		FROM conference_registrations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.ConferenceRegistration
	for rows.Next() {
		reg := &domain.ConferenceRegistration{}
		var checkedIn sql.NullTime
		if err := rows.Scan(&reg.ID, &reg.ConferenceID, &reg.UserID, &checkedIn, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		if checkedIn.Valid {
			reg.CheckedInAt = &checkedIn.Time
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.ConferenceRegistration{}
	}
	return regs, nil
}

func (r *registrationRepository) SetCheckedIn(ctx context.Context, registrationID string, at time.Time) error {
	query := `
		UPDATE conference_registrations
		SET checked_in_at = $2, updated_at = $2
		WHERE id = $1 AND checked_in_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query, registrationID, at)
	return err
}
