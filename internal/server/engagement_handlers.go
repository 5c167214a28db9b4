package server

import (
	"sonic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /posts/:postId/like
// @Summary Toggle like
// @Description Likes the post, or removes the caller's like if present
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} service.LikeResponse
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{postId}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	resp, err := s.likeService.ToggleLike(c.UserContext(), c.Params("postId"), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetLikeStatus handles GET /posts/:postId/like
// @Summary Like status
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} service.LikeResponse
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{postId}/like [get]
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	resp, err := s.likeService.GetStatus(c.UserContext(), c.Params("postId"), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// JoinCampaign handles POST /campaigns/:postId/join
// @Summary Join campaign
// @Description Idempotent. alreadyMember is true when the caller had joined before.
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Campaign post ID"
// @Success 200 {object} service.JoinResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /campaigns/{postId}/join [post]
func (s *Server) JoinCampaign(c *fiber.Ctx) error {
	resp, err := s.campaignService.JoinCampaign(c.UserContext(), c.Params("postId"), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetJoinStatus handles GET /campaigns/:postId/join
// @Summary Campaign join status
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Campaign post ID"
// @Success 200 {object} service.JoinResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /campaigns/{postId}/join [get]
func (s *Server) GetJoinStatus(c *fiber.Ctx) error {
	resp, err := s.campaignService.GetJoinStatus(c.UserContext(), c.Params("postId"), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetParticipants handles GET /campaigns/:postId/participants
// @Summary Campaign participants
// @Description Participants in join order
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Campaign post ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} models.Page[service.ParticipantResponse]
// @Failure 400 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /campaigns/{postId}/participants [get]
func (s *Server) GetParticipants(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c, 10)
	resp, err := s.campaignService.ListParticipants(c.UserContext(), c.Params("postId"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
