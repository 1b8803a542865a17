package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-signing-secret")

func newTestManager() *TokenManager {
	return NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)
}

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := newTestManager()

	tests := []struct {
		name  string
		issue func(string) (string, error)
	}{
		{name: "access token", issue: tm.IssueAccessToken},
		{name: "refresh token", issue: tm.IssueRefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issue("ann@example.com")
			require.NoError(t, err)
			require.NotEmpty(t, token)

			assert.True(t, tm.Validate(token))

			subject, err := tm.Subject(token)
			require.NoError(t, err)
			assert.Equal(t, "ann@example.com", subject)
		})
	}
}

func TestTokenManager_ValidateRejections(t *testing.T) {
	tm := newTestManager()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage string",
			token: "not-a-token",
		},
		{
			name:  "empty string",
			token: "",
		},
		{
			name:  "expired token",
			token: signToken(t, testSecret, jwt.SigningMethodHS256, "ann@example.com", time.Now().Add(-time.Minute)),
		},
		{
			name:  "wrong signing key",
			token: signToken(t, []byte("some-other-secret"), jwt.SigningMethodHS256, "ann@example.com", time.Now().Add(time.Hour)),
		},
		{
			name:  "wrong signing method",
			token: signToken(t, testSecret, jwt.SigningMethodHS384, "ann@example.com", time.Now().Add(time.Hour)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tm.Validate(tt.token))

			_, err := tm.Subject(tt.token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestTokenManager_ExpiryHonorsTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Millisecond, 7*24*time.Hour)

	token, err := tm.IssueAccessToken("ann@example.com")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.False(t, tm.Validate(token))
}

func TestNewTokenManager_Defaults(t *testing.T) {
	tm := NewTokenManager(testSecret, 0, -time.Hour)

	assert.Equal(t, 15*time.Minute, tm.accessTTL)
	assert.Equal(t, 7*24*time.Hour, tm.refreshTTL)
	assert.Equal(t, 15*time.Minute, tm.AccessTokenTTL())
}
