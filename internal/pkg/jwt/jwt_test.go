package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	tok, err := svc.GenerateToken("uid-1", "ana@example.com", true)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := New("a", time.Hour).GenerateToken("uid-1", "x@example.com", false)
	require.NoError(t, err)

	_, err = New("b", time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	tok, err := New("a", -time.Minute).GenerateToken("uid-1", "x@example.com", false)
	require.NoError(t, err)

	_, err = New("a", time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}
