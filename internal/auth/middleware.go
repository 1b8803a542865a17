package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tecnocore/auth-service/internal/domain"
	"github.com/tecnocore/auth-service/internal/repository"
)

const (
	principalKey = "auth_principal"
	bearerPrefix = "Bearer "
)

// Middleware establishes caller identity from bearer tokens. Requests
// without an Authorization header (or without the Bearer scheme) pass
// through unauthenticated; the route decides whether identity is required.
// Requests that do present a bearer token must carry a valid one.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs the per-request filter.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle runs once per request. On success it stores a Principal in the
// request-scoped locals; it never mutates shared state.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return c.Next()
	}

	tokenStr := authHeader[len(bearerPrefix):]
	if !m.tokens.Validate(tokenStr) {
		return unauthorized(c, "invalid token")
	}

	email, err := m.tokens.Subject(tokenStr)
	if err != nil {
		c.Locals(principalKey, nil)
		return unauthorized(c, "invalid or expired token")
	}

	user, err := m.users.GetByEmail(c.Context(), email)
	if err != nil {
		c.Locals(principalKey, nil)
		return unauthorized(c, "invalid or expired token")
	}

	c.Locals(principalKey, &domain.Principal{Email: user.Email, Role: user.Role})
	return c.Next()
}

// RequireAuthenticated guards routes that need an established identity.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return unauthorized(c, "not authenticated, please log in")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}
