package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))

	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("secret2", hash))

	other, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ")
}

func TestBcrypt_VerifyMalformedNeverPanics(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	for _, bad := range []string{"", "plain", "$2a$", "$argon2id$v=19$m=1,t=1,p=1$x$y"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret1", bad))
		})
	}
}

func TestBcrypt_Cost(t *testing.T) {
	_, err := NewBcrypt(3)
	assert.Error(t, err)
	_, err = NewBcrypt(32)
	assert.Error(t, err)

	h, err := NewBcrypt(DefaultCost)
	require.NoError(t, err)
	assert.Equal(t, 10, h.Cost())

	_, err = h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestBcrypt_MaxBytes(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("x", MaxBytes+1))
	assert.ErrorIs(t, err, ErrTooLong)

	hash, err := h.Hash(strings.Repeat("x", MaxBytes))
	require.NoError(t, err)
	assert.True(t, h.Verify(strings.Repeat("x", MaxBytes), hash))
}
