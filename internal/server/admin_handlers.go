package server

import (
	"github.com/gofiber/fiber/v2"
)

// AdminDeletePost handles DELETE /admin/posts/:id
// @Summary Force-delete post
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 403 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /admin/posts/{id} [delete]
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), c.Params("id"), actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminDeleteComment handles DELETE /admin/comments/:id
// @Summary Force-delete comment
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 204
// @Failure 403 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /admin/comments/{id} [delete]
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	if err := s.commentService.DeleteComment(c.UserContext(), c.Params("id"), actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FeaturePost handles POST /admin/posts/:id/feature
// @Summary Feature post
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 400 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /admin/posts/{id}/feature [post]
func (s *Server) FeaturePost(c *fiber.Ctx) error {
	return s.setFeatured(c, true)
}

// UnfeaturePost handles POST /admin/posts/:id/unfeature
// @Summary Unfeature post
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 400 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /admin/posts/{id}/unfeature [post]
func (s *Server) UnfeaturePost(c *fiber.Ctx) error {
	return s.setFeatured(c, false)
}

func (s *Server) setFeatured(c *fiber.Ctx, featured bool) error {
	if err := s.postService.SetFeaturedStatus(c.UserContext(), c.Params("id"), featured); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
