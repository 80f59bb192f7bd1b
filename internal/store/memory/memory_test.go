package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"taskdeck.dev/internal/store"
)

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	users := New().Users()
	ctx := context.Background()

	err := users.Create(ctx, &store.User{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	err = users.Create(ctx, &store.User{ID: uuid.New(), Username: "alice"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestTasksByOwnerOrderedByCreation(t *testing.T) {
	tasks := New().Tasks()
	ctx := context.Background()
	owner := uuid.New()
	base := time.Now().UTC()

	// Insert out of order; listing must come back oldest first.
	second := &store.Task{ID: uuid.New(), Title: "Second", OwnerID: owner, CreatedAt: base.Add(time.Second)}
	first := &store.Task{ID: uuid.New(), Title: "First", OwnerID: owner, CreatedAt: base}
	require.NoError(t, tasks.Create(ctx, second))
	require.NoError(t, tasks.Create(ctx, first))

	got, err := tasks.ByOwner(ctx, owner, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "First", got[0].Title)
	require.Equal(t, "Second", got[1].Title)
}

func TestTaskUpdateEnforcesOwnership(t *testing.T) {
	tasks := New().Tasks()
	ctx := context.Background()
	owner := uuid.New()

	created := &store.Task{ID: uuid.New(), Title: "Buy milk", OwnerID: owner, CreatedAt: time.Now().UTC()}
	require.NoError(t, tasks.Create(ctx, created))

	stolen := *created
	stolen.OwnerID = uuid.New()
	require.ErrorIs(t, tasks.Update(ctx, &stolen), store.ErrNotFound)
}
