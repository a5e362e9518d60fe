package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, secret string) *JWTService {
	t.Helper()
	s, err := NewJWTService(DefaultJWTConfig(secret))
	require.NoError(t, err)
	return s
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := newService(t, "secret")

	token, expiresAt, err := s.GenerateAccessToken(TokenRequest{
		UserID:       "u-1",
		Email:        "clerk@example.com",
		Roles:        []string{"store_keeper"},
		BranchIDs:    []string{"b-1", "b-2"},
		ActiveBranch: "b-1",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	user, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.Equal(t, []string{"b-1", "b-2"}, user.BranchIDs)
	assert.Equal(t, "b-1", user.ActiveBranchID)
	assert.False(t, user.IsSuperAdmin)
}

func TestJWTService_RejectsOtherSecret(t *testing.T) {
	token, _, err := newService(t, "a").GenerateAccessToken(TokenRequest{UserID: "u"})
	require.NoError(t, err)

	_, err = newService(t, "b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	s := newService(t, "secret")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "inventra",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: "u",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsMissingUser(t *testing.T) {
	s := newService(t, "secret")
	token, _, err := s.GenerateAccessToken(TokenRequest{})
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
}
