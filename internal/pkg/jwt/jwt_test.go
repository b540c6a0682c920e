package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("attendance-device", RoleService)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "attendance-device", decoded.Subject())

	role, ok := decoded.Get("role")
	require.True(t, ok)
	assert.Equal(t, "service", role)
}

func TestGenerateAccessToken_RequiresSubject(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", 0)
	_, _, err := svc.GenerateAccessToken("", RoleAdmin)
	assert.Error(t, err)
}

func TestDecode_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-one", time.Hour).GenerateAccessToken("svc", RoleService)
	require.NoError(t, err)

	_, err = NewJWTService("secret-two", time.Hour).JWTAuth().Decode(token)
	assert.Error(t, err)
}
