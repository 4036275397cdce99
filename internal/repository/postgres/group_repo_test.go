package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencehub/internal/domain"
)

func TestGroupRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO groups \(conference_id, name, owner_id, created_at, updated_at\)`).
		WithArgs("conf-1", "Gophers", "user-1", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("group-uuid-1"))

	repo := NewGroupRepository(db)
	group := domain.NewGroup("conf-1", "Gophers", "user-1", now, now)
	require.NoError(t, repo.Create(ctx, group))
	require.Equal(t, "group-uuid-1", group.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, name, owner_id, created_at, updated_at`).
			WithArgs("group-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "conference_id", "name", "owner_id", "created_at", "updated_at"}).
				AddRow("group-1", "conf-1", "Gophers", "user-1", now, now))

		repo := NewGroupRepository(db)
		group, err := repo.GetByID(ctx, "group-1")
		require.NoError(t, err)
		require.Equal(t, "conf-1", group.ConferenceID)
		require.Equal(t, "Gophers", group.Name)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, conference_id, name, owner_id, created_at, updated_at`).
			WithArgs("group-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewGroupRepository(db)
		_, err = repo.GetByID(ctx, "group-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGroupRepository_AddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO group_members`).
			WithArgs("group-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewGroupRepository(db)
		require.NoError(t, repo.AddMember(ctx, "group-1", "user-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to already member", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO group_members`).
			WithArgs("group-1", "user-1").
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewGroupRepository(db)
		err = repo.AddMember(ctx, "group-1", "user-1")
		require.ErrorIs(t, err, domain.ErrAlreadyMember)
	})
}

func TestGroupRepository_RemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM group_members`).
			WithArgs("group-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewGroupRepository(db)
		require.NoError(t, repo.RemoveMember(ctx, "group-1", "user-1"))
	})

	t.Run("not a member", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM group_members`).
			WithArgs("group-1", "user-2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewGroupRepository(db)
		err = repo.RemoveMember(ctx, "group-1", "user-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGroupRepository_ListMembers(t *testing.T) {
	ctx := context.Background()
	joined := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT m.group_id, m.user_id, u.name, u.last_name, u.email, m.joined_at`).
		WithArgs("group-1").
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id", "name", "last_name", "email", "joined_at"}).
			AddRow("group-1", "user-1", "Ada", nil, "ada@example.com", joined))

	repo := NewGroupRepository(db)
	members, err := repo.ListMembers(ctx, "group-1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "Ada", members[0].Name)
	require.Empty(t, members[0].LastName)
	require.Equal(t, "ada@example.com", members[0].Email)
}
