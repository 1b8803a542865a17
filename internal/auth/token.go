package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token cannot be parsed or its
// signature does not verify against the process signing key.
var ErrMalformedToken = errors.New("malformed token")

// TokenManager issues and validates the signed bearer tokens used by the
// service. Tokens are self-contained HS256 JWTs carrying the account email
// as subject; validity is purely a function of signature and current time,
// so any instance sharing the key can validate without shared state.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a manager around the decoded signing secret.
func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken signs a short-lived token for the subject email.
func (tm *TokenManager) IssueAccessToken(email string) (string, error) {
	return tm.issue(email, tm.accessTTL)
}

// IssueRefreshToken signs a long-lived token for the subject email.
func (tm *TokenManager) IssueRefreshToken(email string) (string, error) {
	return tm.issue(email, tm.refreshTTL)
}

func (tm *TokenManager) issue(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Validate reports whether the token's signature verifies and it has not
// expired. Malformed encodings, signature mismatches and expiry all
// normalize to false; callers never see why verification failed.
func (tm *TokenManager) Validate(tokenStr string) bool {
	_, err := tm.parse(tokenStr)
	return err == nil
}

// Subject extracts the subject email from a token. It fails with
// ErrMalformedToken when the token does not parse and verify; callers are
// expected to Validate first or handle the error.
func (tm *TokenManager) Subject(tokenStr string) (string, error) {
	token, err := tm.parse(tokenStr)
	if err != nil {
		return "", ErrMalformedToken
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", ErrMalformedToken
	}
	return subject, nil
}

// AccessTokenTTL exposes the configured access token lifetime.
func (tm *TokenManager) AccessTokenTTL() time.Duration {
	return tm.accessTTL
}

func (tm *TokenManager) parse(tokenStr string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}
