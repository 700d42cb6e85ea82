package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	signed, err := GenerateJWT(42, "sachin", "admin", secret, 15)
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sachin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateJWT_Rejects(t *testing.T) {
	signed, err := GenerateJWT(7, "rahul", "user", secret, 15)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT(7, "rahul", "user", secret, -5)
	require.NoError(t, err)
	_, err = ValidateJWT(expired, secret)
	assert.EqualError(t, err, "token has expired")

	zero, err := GenerateJWT(0, "ghost", "user", secret, 15)
	require.NoError(t, err)
	_, err = ValidateJWT(zero, secret)
	assert.Error(t, err)

	_, err = ValidateJWT("", secret)
	assert.Error(t, err)
}
