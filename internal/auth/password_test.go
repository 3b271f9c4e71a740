package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", hash)

	require.True(t, VerifyPassword("supersecret", hash))
	require.False(t, VerifyPassword("wrongpassword", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := HashPassword("supersecret")
	require.NoError(t, err)

	second, err := HashPassword("supersecret")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestVerifyPassword_BadHash(t *testing.T) {
	require.False(t, VerifyPassword("supersecret", "not-a-bcrypt-hash"))
}
