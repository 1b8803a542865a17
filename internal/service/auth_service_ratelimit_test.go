package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tecnocore/auth-service/internal/auth"
	"github.com/tecnocore/auth-service/internal/ratelimit"
	"github.com/tecnocore/auth-service/internal/service"
)

func TestAuthService_Login_RateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryUserRepo()
	tokens := auth.NewTokenManager([]byte("service-test-secret"), 15*time.Minute, 7*24*time.Hour)
	limiter := ratelimit.NewLoginLimiter(client, zap.NewNop(), 3, time.Minute)
	svc := service.NewAuthService(repo, tokens, limiter, nil, bcrypt.MinCost)

	ctx := context.Background()
	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, "ann@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
	}

	// further attempts are blocked even with the right password
	_, err = svc.Login(ctx, "ann@example.com", "pw123")
	require.Error(t, err)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", domainCode(t, err))

	// the window passing unblocks the account
	mr.FastForward(2 * time.Minute)
	pair, err := svc.Login(ctx, "ann@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
}
