package task_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"taskdeck.dev/internal/store/memory"
	"taskdeck.dev/internal/task"
)

func TestCreateAndGet(t *testing.T) {
	svc := task.NewService(memory.New().Tasks())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "Buy milk", "two litres")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, owner, created.OwnerID)
	require.False(t, created.Completed)
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestOwnershipIsolation(t *testing.T) {
	svc := task.NewService(memory.New().Tasks())
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	created, err := svc.Create(ctx, alice, "Buy milk", "")
	require.NoError(t, err)

	// Another owner's tasks behave as if they do not exist.
	_, err = svc.Get(ctx, bob, created.ID)
	require.ErrorIs(t, err, task.ErrNotFound)
	_, err = svc.ToggleCompleted(ctx, bob, created.ID)
	require.ErrorIs(t, err, task.ErrNotFound)
	err = svc.Delete(ctx, bob, created.ID)
	require.ErrorIs(t, err, task.ErrNotFound)

	list, err := svc.List(ctx, bob, nil)
	require.NoError(t, err)
	require.Empty(t, list)

	// The owner still sees the task untouched.
	got, err := svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	require.False(t, got.Completed)
}

func TestListFiltersByCompletion(t *testing.T) {
	svc := task.NewService(memory.New().Tasks())
	ctx := context.Background()
	owner := uuid.New()

	first, err := svc.Create(ctx, owner, "First", "")
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, "Second", "")
	require.NoError(t, err)

	_, err = svc.ToggleCompleted(ctx, owner, second.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, owner, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	done := true
	completed, err := svc.List(ctx, owner, &done)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, second.ID, completed[0].ID)

	open := false
	pending, err := svc.List(ctx, owner, &open)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, first.ID, pending[0].ID)
}

func TestToggleCompletedFlipsBothWays(t *testing.T) {
	svc := task.NewService(memory.New().Tasks())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "Buy milk", "")
	require.NoError(t, err)

	toggled, err := svc.ToggleCompleted(ctx, owner, created.ID)
	require.NoError(t, err)
	require.True(t, toggled.Completed)
	require.False(t, toggled.UpdatedAt.Before(created.UpdatedAt))

	toggled, err = svc.ToggleCompleted(ctx, owner, created.ID)
	require.NoError(t, err)
	require.False(t, toggled.Completed)
}

func TestDelete(t *testing.T) {
	svc := task.NewService(memory.New().Tasks())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "Buy milk", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	_, err = svc.Get(ctx, owner, created.ID)
	require.ErrorIs(t, err, task.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, owner, created.ID), task.ErrNotFound)
}
