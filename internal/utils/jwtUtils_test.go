package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSecret = []byte("jwt-utils-test-secret-0123456789")

func TestUserTokenRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := GenerateUserToken(testSecret, id, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseUserToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseUserTokenRejections(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateUserToken(testSecret, id, -time.Minute)
		require.NoError(t, err)

		_, err = ParseUserToken(testSecret, token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateUserToken(testSecret, id, time.Hour)
		require.NoError(t, err)

		_, err = ParseUserToken([]byte("another-secret-another-secret-ok"), token)
		assert.Error(t, err)
	})

	t.Run("admin token has no identity id", func(t *testing.T) {
		token, err := GenerateAdminToken(testSecret, "admin@example.com", time.Hour)
		require.NoError(t, err)

		_, err = ParseUserToken(testSecret, token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseUserToken(testSecret, "not.a.token")
		assert.Error(t, err)
	})
}
