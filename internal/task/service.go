// Package task implements owner-scoped task management. Every operation takes
// the acting principal's id and filters on it; tasks belonging to other users
// behave as nonexistent.
package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"taskdeck.dev/internal/store"
)

// ErrNotFound covers both a missing task and a task owned by someone else.
var ErrNotFound = errors.New("task: not found")

// Service provides task CRUD on top of the task store.
type Service struct {
	tasks store.TaskStore
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(tasks store.TaskStore) *Service {
	return &Service{
		tasks: tasks,
		now:   time.Now,
	}
}

// Create stores a new task owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*store.Task, error) {
	now := s.now().UTC()
	t := &store.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the owner's task by id.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*store.Task, error) {
	t, err := s.tasks.ByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return t, nil
}

// List returns the owner's tasks ordered by creation time, optionally
// narrowed by completion state.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]*store.Task, error) {
	return s.tasks.ByOwner(ctx, ownerID, completed)
}

// ToggleCompleted flips the completion flag of the owner's task.
func (s *Service) ToggleCompleted(ctx context.Context, ownerID, id uuid.UUID) (*store.Task, error) {
	t, err := s.tasks.ByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, mapStoreErr(err)
	}
	return t, nil
}

// Delete removes the owner's task by id.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.tasks.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
