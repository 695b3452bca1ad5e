package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptStore_WindowSlides(t *testing.T) {
	now := time.Unix(1756000000, 0)
	s := NewAttemptStore(3, 5*time.Minute)
	s.now = func() time.Time { return now }

	key := "10.0.0.1"
	for i := 0; i < 3; i++ {
		assert.True(t, s.Allowed(key))
		s.RecordFailure(key)
	}
	assert.False(t, s.Allowed(key))
	assert.Equal(t, 0, s.Remaining(key))

	// Entries expire as the window slides past them.
	now = now.Add(5*time.Minute + time.Second)
	assert.True(t, s.Allowed(key))
	assert.Equal(t, 3, s.Remaining(key))
}

func TestAttemptStore_KeysAreIndependent(t *testing.T) {
	s := NewAttemptStore(2, time.Minute)
	s.RecordFailure("a")
	s.RecordFailure("a")
	assert.False(t, s.Allowed("a"))
	assert.True(t, s.Allowed("b"))

	s.Reset("a")
	assert.True(t, s.Allowed("a"))
}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong horse"))
	assert.False(t, VerifyPassword("not-a-hash", "correct horse"))
}

func TestAuthenticator_LocksOutAfterFailures(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	auth := NewAuthenticator(hash, NewAttemptStore(2, time.Minute))
	key := "10.0.0.9"

	require.Error(t, auth.Login(key, "nope"))
	require.Error(t, auth.Login(key, "nope"))
	assert.ErrorIs(t, auth.Login(key, "s3cret"), ErrTooManyAttempts,
		"even the right password is rejected while locked out")
}

func TestAuthenticator_SuccessResetsWindow(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	auth := NewAuthenticator(hash, NewAttemptStore(3, time.Minute))
	key := "10.0.0.9"

	require.Error(t, auth.Login(key, "nope"))
	require.NoError(t, auth.Login(key, "s3cret"))
	require.Error(t, auth.Login(key, "nope"))
	require.Error(t, auth.Login(key, "nope"))
	require.NoError(t, auth.Login(key, "s3cret"), "reset restored the full budget")
}

func TestAuthenticator_EmptyHashNeverMatches(t *testing.T) {
	auth := NewAuthenticator("", NewAttemptStore(5, time.Minute))
	require.Error(t, auth.Login("k", ""))
}
