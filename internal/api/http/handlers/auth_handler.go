package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tecnocore/auth-service/internal/api/dto"
	"github.com/tecnocore/auth-service/internal/auth"
	"github.com/tecnocore/auth-service/internal/service"
	"github.com/tecnocore/auth-service/pkg/util"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return util.NewValidationError(err.Error())
	}

	result, err := h.auth.Register(c.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(dto.RegisterResponse{
		Message:   result.Message,
		Status:    result.Status,
		Timestamp: result.Timestamp,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return util.NewValidationError(err.Error())
	}

	pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

// RefreshToken handles POST /auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	if err := req.Validate(); err != nil {
		return util.NewValidationError(err.Error())
	}

	pair, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

// CurrentUser handles GET /auth/current-user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	profile, err := h.auth.CurrentUser(c.Context(), principal)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileResponse{
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
	})
}
