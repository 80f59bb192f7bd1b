package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContextRoundtrip(t *testing.T) {
	principal := Principal{ID: uuid.New(), Username: "alice"}

	ctx := ContextWithPrincipal(context.Background(), principal)
	got, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, principal, got)
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	require.False(t, ok)
}
