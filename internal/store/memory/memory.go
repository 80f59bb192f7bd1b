// Package memory provides a mutex-guarded in-memory store used by tests and
// DSN-less development runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"taskdeck.dev/internal/store"
)

// Store keeps all records in process memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]store.User
	tasks map[uuid.UUID]store.Task
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]store.User),
		tasks: make(map[uuid.UUID]store.Task),
	}
}

func (s *Store) Users() store.UserStore { return (*userStore)(s) }
func (s *Store) Tasks() store.TaskStore { return (*taskStore)(s) }

type userStore Store

func (s *userStore) Create(ctx context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return store.ErrAlreadyExists
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *userStore) ByID(ctx context.Context, id uuid.UUID) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *userStore) ByUsername(ctx context.Context, username string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *userStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type taskStore Store

func (s *taskStore) Create(ctx context.Context, t *store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = *t
	return nil
}

func (s *taskStore) ByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *taskStore) ByOwner(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]*store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []*store.Task
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		t := t
		res = append(res, &t)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID.String() < res[j].ID.String()
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (s *taskStore) Update(ctx context.Context, t *store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[t.ID]
	if !ok || existing.OwnerID != t.OwnerID {
		return store.ErrNotFound
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *taskStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
