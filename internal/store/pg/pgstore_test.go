package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"taskdeck.dev/internal/store"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewWithDB(db), mock
}

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	st, mock := newMock(t)

	mock.ExpectExec("insert into users").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := st.Users().Create(context.Background(), &store.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUserByUsername(t *testing.T) {
	st, mock := newMock(t)

	id := uuid.New()
	created := time.Now().UTC().Truncate(time.Microsecond)
	mock.ExpectQuery("select id, username, password_hash, created_at from users where username=").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(id.String(), "alice", "hash", created))

	u, err := st.Users().ByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "hash", u.PasswordHash)
	require.Equal(t, created, u.CreatedAt)
}

func TestUserByIDNotFound(t *testing.T) {
	st, mock := newMock(t)

	id := uuid.New()
	mock.ExpectQuery("select id, username, password_hash, created_at from users where id=").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	_, err := st.Users().ByID(context.Background(), id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsernameExists(t *testing.T) {
	st, mock := newMock(t)

	mock.ExpectQuery("select exists").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := st.Users().UsernameExists(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestTaskByOwnerWithCompletedFilter(t *testing.T) {
	st, mock := newMock(t)

	owner := uuid.New()
	taskID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	mock.ExpectQuery("from tasks where owner_id=.* and completed=").
		WithArgs(owner, true).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "description", "completed", "owner_id", "created_at", "updated_at"}).
			AddRow(taskID.String(), "Buy milk", "", true, owner.String(), now, now))

	done := true
	tasks, err := st.Tasks().ByOwner(context.Background(), owner, &done)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, taskID, tasks[0].ID)
	require.True(t, tasks[0].Completed)
}

func TestTaskUpdateNotFound(t *testing.T) {
	st, mock := newMock(t)

	mock.ExpectExec("update tasks set").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.Tasks().Update(context.Background(), &store.Task{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Title:   "Buy milk",
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskDeleteNotFound(t *testing.T) {
	st, mock := newMock(t)

	id := uuid.New()
	owner := uuid.New()
	mock.ExpectExec("delete from tasks where id=").
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.Tasks().DeleteByIDAndOwner(context.Background(), id, owner)
	require.ErrorIs(t, err, store.ErrNotFound)
}
