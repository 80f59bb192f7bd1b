package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotContains(t, hash, "password123")

	require.NoError(t, VerifyPassword(hash, "password123"))
	require.Error(t, VerifyPassword(hash, "wrongpass"))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestVerifyPasswordRejectsEmptyHash(t *testing.T) {
	require.Error(t, VerifyPassword("", "password123"))
}
