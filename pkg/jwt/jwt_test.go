package jwt_test

import (
	"testing"
	"time"

	"grimoire/backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	const secret = "test-secret"

	token, err := jwt.GenerateToken(42, secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, expiresAt, err := jwt.ParseToken(token, secret)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
	assert.WithinDuration(t, time.Now().Add(jwt.TokenTTL), expiresAt, time.Minute)
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	const secret = "test-secret"

	token, err := jwt.GenerateToken(42, secret)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := jwt.ParseToken(token, "other-secret")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := jwt.ParseToken("not.a.token", secret)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, _, err := jwt.ParseToken("", secret)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
