package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fault-report-service/internal/api/dto"
	"github.com/spec-kit/fault-report-service/internal/auth"
	"github.com/spec-kit/fault-report-service/internal/service"
)

// AuthHandler exposes staff sign-up, sign-in and sign-out endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return fiber.NewError(http.StatusBadRequest, "full_name, email, password required")
	}

	result, err := h.auth.SignUp(c.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}

	payload := fiber.Map{
		"user": fiber.Map{
			"id":        result.Profile.ID,
			"full_name": result.Profile.FullName,
			"email":     result.Profile.Email,
		},
		"session_established": result.SessionEstablished,
	}
	if result.SessionEstablished {
		payload["auth"] = dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": payload})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":        result.Profile.ID,
				"full_name": result.Profile.FullName,
				"email":     result.Profile.Email,
			},
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// ConfirmEmail handles POST /auth/confirm.
func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	var req dto.ConfirmEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	if err := h.auth.ConfirmEmail(c.Context(), req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"confirmed": true}})
}

// SignOut handles POST /auth/signout. The optional scope=global query
// revokes every session for the caller rather than just the current one.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		// Signing out without a session is a no-op, not an error.
		return c.JSON(fiber.Map{"data": fiber.Map{"signed_out": true}})
	}

	var err error
	if c.Query("scope") == "global" {
		err = h.auth.SignOutGlobal(c.Context(), principal.Staff.ID)
	} else {
		err = h.auth.SignOut(c.Context(), principal.Staff.ID, principal.Session.ID)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"signed_out": true}})
}

// Me handles GET /auth/me, the current-session query.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":        principal.Staff.ID,
			"full_name": principal.Staff.FullName,
			"email":     principal.Staff.Email,
		},
	})
}
