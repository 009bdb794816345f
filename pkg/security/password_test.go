package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, h.Compare(hash, "correct-horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong-horse"), ErrMismatch)
	assert.ErrorIs(t, h.Compare("not-a-hash", "correct-horse"), ErrMismatch)
}

func TestBcryptHasher_Length(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordLen+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(100).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
