package helper

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestHashPasswordUsesCost(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))

	_, err = HashPassword("x", bcrypt.MaxCost+1)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := SetupAuth("secret")
	tok, err := auth.GenerateToken("rev-1", "r@example.com", RoleReviewer, time.Minute)
	require.NoError(t, err)

	r, err := auth.VerifyToken("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, "rev-1", r.ID)
	assert.Equal(t, RoleReviewer, r.Role)

	_, err = SetupAuth("other").VerifyToken(tok)
	assert.Error(t, err)

	expired, err := auth.GenerateToken("rev-1", "r@example.com", RoleReviewer, -time.Minute)
	require.NoError(t, err)
	_, err = auth.VerifyToken(expired)
	assert.EqualError(t, err, "token expired")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: applications.email")))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.False(t, IsDuplicateKey(nil))
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
