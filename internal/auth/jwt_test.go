package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.Generate("ana@example.com", []string{"photographer", "content manager"})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", claims.Email)
	require.Equal(t, []string{"photographer", "content manager"}, claims.Roles)
	require.NotEmpty(t, claims.TokenID)
	require.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt, time.Minute)

	require.True(t, claims.HasRole("photographer"))
	require.False(t, claims.HasRole("content reviewer"))
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").Generate("ana@example.com", nil)
	require.NoError(t, err)

	_, err = NewManager("secret-b").Validate(token)
	require.ErrorIs(t, err, errs.ErrAuth)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret").Validate("not-a-token")
	require.ErrorIs(t, err, errs.ErrAuth)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.True(t, CheckPasswordHash("hunter2", hash))
	require.False(t, CheckPasswordHash("hunter3", hash))
}
