package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasscodeRoundTrip(t *testing.T) {
	hash, err := HashPasscode("open sesame")
	require.NoError(t, err)
	assert.True(t, CheckPasscode(hash, "open sesame"))
	assert.False(t, CheckPasscode(hash, "wrong"))
	assert.False(t, CheckPasscode(hash, ""))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateToken("test-secret", "You")
	require.NoError(t, err)

	claims, err := ValidateToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "You", claims.PlayerName)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := CreateToken("secret-a", "You")
	require.NoError(t, err)

	_, err = ValidateToken("secret-b", token)
	assert.Error(t, err)
}

func TestTokenWrongAlgorithmRejected(t *testing.T) {
	// an unsigned token must never validate
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{PlayerName: "Mallory"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken("test-secret", raw)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ValidateToken("test-secret", "not.a.token")
	assert.Error(t, err)
}
