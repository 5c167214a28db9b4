package server

import (
	"sonic/internal/middleware"
	"sonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /users/me
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CurrentUserResponse
// @Failure 401 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	resp, err := s.userService.GetCurrentUser(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateMyProfile handles PUT /users/me
// @Summary Update current user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Profile"
// @Success 200 {object} service.CurrentUserResponse
// @Failure 400 {object} models.ProblemDetails
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := s.userService.UpdateProfile(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetUserProfile handles GET /users/:id
// @Summary Public profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.PublicUserResponse
// @Failure 404 {object} models.ProblemDetails
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	resp, err := s.userService.GetPublicProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
