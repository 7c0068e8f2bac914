package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"platebook/internal/models"
	"platebook/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
}

func (s *Server) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
}

// Register handles account creation. The response carries the safe
// user projection together with a signed token so a fresh signup can
// proceed without a separate login.
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.issueAccessToken(user, RegisterTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return respondSuccess(c, fiber.StatusCreated, "Register success", fiber.Map{
		"user":        user.Public(),
		"accessToken": token,
	})
}

// Login verifies credentials, issues both tokens, persists the refresh
// token on the account and sets it as an HTTP-only cookie.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	accessToken, err := s.issueAccessToken(user, AccessTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	refreshToken, err := s.issueRefreshToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.userRepo.SetRefreshToken(c.UserContext(), user.ID, &refreshToken); err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.setRefreshCookie(c, refreshToken)

	return respondSuccess(c, fiber.StatusOK, "Login success", fiber.Map{
		"user":        user.Public(),
		"accessToken": accessToken,
	})
}

// Refresh exchanges the refresh-token cookie for a new access token.
// The presented token must match the one stored on the account and
// carry a valid signature; a well-formed token that matches no stored
// value is rejected.
func (s *Server) Refresh(c *fiber.Ctx) error {
	raw := c.Cookies(refreshCookieName)
	if raw == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Refresh token required"))
	}

	user, err := s.userRepo.GetByRefreshToken(c.UserContext(), raw)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Invalid refresh token"))
	}

	claims, err := s.parseRefreshToken(raw)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Invalid refresh token"))
	}
	if claims.ID != user.ID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Invalid refresh token"))
	}

	accessToken, err := s.issueAccessToken(user, AccessTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"accessToken": accessToken,
	})
}

// Logout invalidates the stored refresh token and clears the cookie.
// It is idempotent: a missing cookie or an unknown token is not an
// error.
func (s *Server) Logout(c *fiber.Ctx) error {
	raw := c.Cookies(refreshCookieName)
	if raw == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}

	user, err := s.userRepo.GetByRefreshToken(c.UserContext(), raw)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		s.clearRefreshCookie(c)
		return c.SendStatus(fiber.StatusNoContent)
	}

	if err := s.userRepo.SetRefreshToken(c.UserContext(), user.ID, nil); err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.clearRefreshCookie(c)
	return respondSuccess(c, fiber.StatusOK, "Logout success", nil)
}
