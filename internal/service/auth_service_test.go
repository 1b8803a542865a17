package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tecnocore/auth-service/internal/auth"
	"github.com/tecnocore/auth-service/internal/domain"
	"github.com/tecnocore/auth-service/internal/repository"
	"github.com/tecnocore/auth-service/internal/service"
	"github.com/tecnocore/auth-service/pkg/util"
)

type memoryUserRepo struct {
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func newTestService() (*service.AuthService, *memoryUserRepo, *auth.TokenManager) {
	repo := newMemoryUserRepo()
	tokens := auth.NewTokenManager([]byte("service-test-secret"), 15*time.Minute, 7*24*time.Hour)
	svc := service.NewAuthService(repo, tokens, nil, nil, bcrypt.MinCost)
	return svc, repo, tokens
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	domainErr := util.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "User Ann registered successfully!", result.Message)
	assert.Equal(t, 201, result.Status)

	_, err = time.Parse("02-01-2006 15:04:05", result.Timestamp)
	assert.NoError(t, err, "timestamp must use the dd-MM-yyyy HH:mm:ss format")

	stored, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.DisplayName)
	assert.Equal(t, domain.DefaultRole, stored.Role)
	assert.NotEmpty(t, stored.ID)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ann@example.com", "Impostor", "hunter2")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_EMAIL", domainCode(t, err))
	assert.Contains(t, err.Error(), "ann@example.com")

	// the first record must survive the conflicting attempt
	stored, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.DisplayName)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "ann@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, tokens.Validate(pair.AccessToken))
	assert.True(t, tokens.Validate(pair.RefreshToken))

	subject, err := tokens.Subject(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "ann@example.com", password: "wrong"},
		{name: "unknown email", email: "nobody@example.com", password: "pw123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			// both failures must be indistinguishable
			assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
			assert.Equal(t, "invalid credentials", util.ToDomainError(err).Message)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "ann@example.com", "pw123")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", renewed.TokenType)

	subject, err := tokens.Subject(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)

	subject, err = tokens.Subject(renewed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Refresh(context.Background(), "garbage-token")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func TestAuthService_Refresh_DeletedSubject(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "ann@example.com", "pw123")
	require.NoError(t, err)

	delete(repo.users, "ann@example.com")

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_SUBJECT", domainCode(t, err))
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "Ann", "pw123")
	require.NoError(t, err)

	profile, err := svc.CurrentUser(ctx, &domain.Principal{Email: "ann@example.com", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", profile.Email)
	assert.Equal(t, "Ann", profile.DisplayName)

	_, err = svc.CurrentUser(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", domainCode(t, err))

	delete(repo.users, "ann@example.com")
	_, err = svc.CurrentUser(ctx, &domain.Principal{Email: "ann@example.com", Role: "user"})
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_SUBJECT", domainCode(t, err))
}
