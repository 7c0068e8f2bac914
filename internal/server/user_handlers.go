package server

import (
	"github.com/gofiber/fiber/v2"

	"platebook/internal/models"
	"platebook/internal/service"
)

// GetAllUsers returns every account's public projection.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return respondList(c, public, len(public))
}

// GetUserByID returns a single account's public projection.
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "", user.Public())
}

// EditUser updates the caller's own profile. Every successful edit
// rotates the stored refresh token and returns the new one in the
// response body; the cookie set at login is left untouched.
func (s *Server) EditUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	in := service.UpdateProfileInput{}
	if v := c.FormValue("username"); v != "" {
		in.Username = &v
	}
	if v := c.FormValue("email"); v != "" {
		in.Email = &v
	}
	if v := c.FormValue("password"); v != "" {
		in.Password = &v
	}
	if v := c.FormValue("fullName"); v != "" {
		in.FullName = &v
	}
	if v := c.FormValue("headline"); v != "" {
		in.Headline = &v
	}

	picture, err := s.formImage(c, "profilePicture")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	in.Picture = picture

	user, err := s.userService.UpdateProfile(c.UserContext(), callerID(c), id, in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	refreshToken, err := s.issueRefreshToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if err := s.userRepo.SetRefreshToken(c.UserContext(), user.ID, &refreshToken); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respondSuccess(c, fiber.StatusOK, "Profile updated", fiber.Map{
		"user":         user.Public(),
		"refreshToken": refreshToken,
	})
}

// DeleteUser removes the caller's own account, its hosted profile
// picture (unless it is the shared default) and everything it owns,
// then clears the session cookie.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.userService.Delete(c.UserContext(), callerID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.clearRefreshCookie(c)
	return respondSuccess(c, fiber.StatusOK, "User deleted", nil)
}
