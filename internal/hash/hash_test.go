package hash

import (
	"testing"

	"github.com/CHRISTIANARIBAL/guiritan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestParams(t *testing.T) {
	t.Helper()

	// Deliberately weak parameters; the tests exercise the encoding
	// and comparison logic, not the cost factor.
	Setup(config.HashConfig{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func TestGenerateAndCompare(t *testing.T) {
	setupTestParams(t)

	encoded, err := GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CompareHashAndPassword(encoded, "correct horse battery staple"))
	assert.False(t, CompareHashAndPassword(encoded, "wrong password"))
}

func TestGenerateUsesFreshSalt(t *testing.T) {
	setupTestParams(t)

	first, err := GenerateFromPassword("secret")
	require.NoError(t, err)

	second, err := GenerateFromPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCompareMalformedHash(t *testing.T) {
	setupTestParams(t)

	assert.False(t, CompareHashAndPassword("not-an-encoded-hash", "anything"))
}

func TestDummyHashNeverMatches(t *testing.T) {
	setupTestParams(t)

	// The dummy hash is derived from a fixed throwaway password; it
	// exists to equalize timing, never to authenticate.
	assert.False(t, CompareHashAndPassword(DummyHash(), "anything"))
}

func TestDecodeHashRejectsBadInput(t *testing.T) {
	setupTestParams(t)

	_, _, err := decodeHash("$argon2id$v=19$m=8192,t=1,p=1$salt")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, _, err = decodeHash("$argon2id$v=1$m=8192,t=1,p=1$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}
