package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"conferencehub/internal/domain"
)

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO conference_registrations \(conference_id, user_id, created_at, updated_at\)`).
					WithArgs("conf-1", "user-1", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-uuid-1"))
			},
			wantID: "reg-uuid-1",
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO conference_registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			reg := domain.NewConferenceRegistration("conf-1", "user-1", now, now)
			err = repo.Create(ctx, reg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, reg.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByConferenceAndUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	checkedIn := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("checked in", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at`).
			WithArgs("conf-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "conference_id", "user_id", "checked_in_at", "created_at", "updated_at"}).
				AddRow("reg-1", "conf-1", "user-1", checkedIn, now, now))

		repo := NewRegistrationRepository(db)
		reg, err := repo.GetByConferenceAndUser(ctx, "conf-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, reg.CheckedInAt)
		require.True(t, reg.CheckedInAt.Equal(checkedIn))
	})

	t.Run("not checked in", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at`).
			WithArgs("conf-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "conference_id", "user_id", "checked_in_at", "created_at", "updated_at"}).
				AddRow("reg-1", "conf-1", "user-1", nil, now, now))

		repo := NewRegistrationRepository(db)
		reg, err := repo.GetByConferenceAndUser(ctx, "conf-1", "user-1")
		require.NoError(t, err)
		require.Nil(t, reg.CheckedInAt)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at`).
			WithArgs("conf-1", "user-2").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrationRepository(db)
		_, err = repo.GetByConferenceAndUser(ctx, "conf-1", "user-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns registrations", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "conference_id", "user_id", "checked_in_at", "created_at", "updated_at"}).
				AddRow("reg-2", "conf-2", "user-1", nil, now, now).
				AddRow("reg-1", "conf-1", "user-1", now, now, now))

		repo := NewRegistrationRepository(db)
		regs, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, regs, 2)
		require.Nil(t, regs[0].CheckedInAt)
		require.NotNil(t, regs[1].CheckedInAt)
	})

	t.Run("empty is not nil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, user_id, checked_in_at, created_at, updated_at`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "conference_id", "user_id", "checked_in_at", "created_at", "updated_at"}))

		repo := NewRegistrationRepository(db)
		regs, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, regs)
		require.Empty(t, regs)
	})
}

func TestRegistrationRepository_SetCheckedIn(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE conference_registrations`).
		WithArgs("reg-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRegistrationRepository(db)
	require.NoError(t, repo.SetCheckedIn(ctx, "reg-1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}
