package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotContains(t, digest, "secret1")

	// bcrypt salts every digest, so hashing twice never repeats.
	second, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, digest, second)
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("secret1")
	assert.NoError(t, err)

	assert.True(t, VerifyPassword("secret1", digest))
	assert.False(t, VerifyPassword("secret2", digest))
	assert.False(t, VerifyPassword("", digest))
	assert.False(t, VerifyPassword("secret1", "not-a-bcrypt-digest"))
}

func TestHashPassword_MaxLengthBoundary(t *testing.T) {
	// 64 chars is the validation ceiling; well under bcrypt's 72-byte cap.
	long := strings.Repeat("p", 64)
	digest, err := HashPassword(long)
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(long, digest))
}
