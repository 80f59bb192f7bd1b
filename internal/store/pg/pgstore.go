// Package pg implements the store contract on PostgreSQL via database/sql
// with the pgx stdlib driver.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"taskdeck.dev/internal/store"
)

const uniqueViolation = "23505"

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL and tunes the connection pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing handle; used by tests.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle for readiness probes and migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Users() store.UserStore { return &userStore{db: s.db} }
func (s *Store) Tasks() store.TaskStore { return &taskStore{db: s.db} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// User store ---------------------------------------------------------------

type userStore struct{ db *sql.DB }

func (s *userStore) Create(ctx context.Context, u *store.User) error {
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, username, password_hash, created_at) values($1,$2,$3,$4)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *userStore) ByID(ctx context.Context, id uuid.UUID) (*store.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password_hash, created_at from users where id=$1`, id)
	return scanUser(row)
}

func (s *userStore) ByUsername(ctx context.Context, username string) (*store.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password_hash, created_at from users where username=$1`, username)
	return scanUser(row)
}

func (s *userStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from users where username=$1)`, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanUser(row *sql.Row) (*store.User, error) {
	var u store.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Task store ----------------------------------------------------------------

type taskStore struct{ db *sql.DB }

func (s *taskStore) Create(ctx context.Context, t *store.Task) error {
	_, err := s.db.ExecContext(ctx,
		`insert into tasks(id, title, description, completed, owner_id, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.Title, t.Description, t.Completed, t.OwnerID, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *taskStore) ByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*store.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, title, description, completed, owner_id, created_at, updated_at
		 from tasks where id=$1 and owner_id=$2`, id, ownerID)
	var t store.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *taskStore) ByOwner(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]*store.Task, error) {
	query := `select id, title, description, completed, owner_id, created_at, updated_at
		 from tasks where owner_id=$1 order by created_at asc`
	args := []any{ownerID}
	if completed != nil {
		query = `select id, title, description, completed, owner_id, created_at, updated_at
		 from tasks where owner_id=$1 and completed=$2 order by created_at asc`
		args = append(args, *completed)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*store.Task
	for rows.Next() {
		var t store.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

func (s *taskStore) Update(ctx context.Context, t *store.Task) error {
	res, err := s.db.ExecContext(ctx,
		`update tasks set title=$1, description=$2, completed=$3, updated_at=$4
		 where id=$5 and owner_id=$6`,
		t.Title, t.Description, t.Completed, t.UpdatedAt, t.ID, t.OwnerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *taskStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`delete from tasks where id=$1 and owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
