// Package store defines the persistence contract the API core depends on.
// Implementations live in the pg and memory subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// User is a credential record. Only the bcrypt hash of the password is ever
// stored; records are created at registration and never mutated.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Task belongs to exactly one user. Every read, update and delete is scoped
// by OwnerID; a task outside the caller's ownership behaves as nonexistent.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Completed   bool
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserStore manages credential records.
type UserStore interface {
	// Create persists a new user. A duplicate username yields ErrAlreadyExists.
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id uuid.UUID) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// TaskStore manages task records with mandatory ownership filtering.
type TaskStore interface {
	Create(ctx context.Context, t *Task) error
	ByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error)
	// ByOwner lists the owner's tasks ordered by creation time. A non-nil
	// completed narrows the result to that completion state.
	ByOwner(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error
}

// Store bundles the per-domain stores behind one handle.
type Store interface {
	Users() UserStore
	Tasks() TaskStore
}
