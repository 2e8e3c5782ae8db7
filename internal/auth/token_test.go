package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newsweb/news-be/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "test", time.Hour)

	token, err := tm.Generate(models.User{ID: "user-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "test", time.Hour).
		Generate(models.User{ID: "user-1", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", "test", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", "test", -time.Minute)

	token, err := tm.Generate(models.User{ID: "user-1", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager("secret", "test", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
