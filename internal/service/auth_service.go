package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tecnocore/auth-service/internal/auth"
	"github.com/tecnocore/auth-service/internal/domain"
	"github.com/tecnocore/auth-service/internal/events"
	"github.com/tecnocore/auth-service/internal/ratelimit"
	"github.com/tecnocore/auth-service/internal/repository"
	"github.com/tecnocore/auth-service/pkg/util"
)

// registrationTimeLayout renders confirmation timestamps as dd-MM-yyyy HH:mm:ss.
const registrationTimeLayout = "02-01-2006 15:04:05"

// RegistrationResult confirms a successful registration.
type RegistrationResult struct {
	Message   string
	Status    int
	Timestamp string
}

// AuthService composes the token manager, credential store and password
// primitives into the register, login, refresh and current-user flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	limiter    *ratelimit.LoginLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service. Limiter and dispatcher are optional.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager,
	limiter *ratelimit.LoginLimiter, dispatcher events.Dispatcher, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		limiter:    limiter,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account with the default role.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*RegistrationResult, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, util.NewDuplicateEmail(email)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, email, events.UserRegisteredPayload{
		DisplayName: displayName,
		Role:        user.Role,
	})

	return &RegistrationResult{
		Message:   fmt.Sprintf("User %s registered successfully!", displayName),
		Status:    http.StatusCreated,
		Timestamp: time.Now().Format(registrationTimeLayout),
	}, nil
}

// Login verifies credentials and mints a fresh token pair. Unknown email
// and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, email); err != nil {
			return nil, util.NewTooManyAttempts()
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, util.NewInvalidCredentials()
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, util.NewInvalidCredentials()
	}

	if s.limiter != nil {
		s.limiter.Reset(ctx, email)
	}

	pair, err := s.mintPair(user.Email)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, email, nil)
	return pair, nil
}

// Refresh validates a refresh token and mints a brand-new pair for its
// subject. The old refresh token stays usable until it expires; there is
// no server-side revocation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if !s.tokens.Validate(refreshToken) {
		return nil, util.NewInvalidToken("invalid or expired refresh token")
	}

	email, err := s.tokens.Subject(refreshToken)
	if err != nil {
		return nil, util.NewInvalidToken("invalid or expired refresh token")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, util.NewUnknownSubject()
		}
		return nil, err
	}

	pair, err := s.mintPair(user.Email)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokenRefreshed, email, nil)
	return pair, nil
}

// CurrentUser returns the profile of the authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, principal *domain.Principal) (*domain.Profile, error) {
	if principal == nil {
		return nil, util.NewUnauthenticated()
	}

	user, err := s.users.GetByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, util.NewUnknownSubject()
		}
		return nil, err
	}

	return &domain.Profile{Email: user.Email, DisplayName: user.DisplayName}, nil
}

func (s *AuthService) mintPair(email string) (*domain.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(email)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    domain.BearerTokenType,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter != nil {
		s.limiter.RecordFailure(ctx, email)
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
