package server

import (
	"sonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /auth/register
// @Summary Register
// @Description Create an account and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration request"
// @Success 200 {object} service.AuthResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 409 {object} models.ProblemDetails
// @Failure 429 {object} models.ProblemDetails
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Login handles POST /auth/login
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} service.AuthResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 401 {object} models.ProblemDetails
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
