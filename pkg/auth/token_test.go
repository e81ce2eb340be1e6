package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	token, err := tm.Issue("admin@email.com", "Admin", []string{"admin"})
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@email.com", claims.Subject)
	assert.Equal(t, "Admin", claims.Name)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	a, err := NewTokenManager("secret-a")
	require.NoError(t, err)
	b, err := NewTokenManager("secret-b")
	require.NoError(t, err)

	token, err := a.Issue("user@email.com", "User", nil)
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	issued := time.Now().Add(-24 * time.Hour)
	tm.now = func() time.Time { return issued }
	token, err := tm.Issue("user@email.com", "User", nil)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	_, err = tm.Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("")
	assert.Error(t, err)
}
