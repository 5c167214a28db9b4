package server

import (
	"fmt"
	"net/url"

	"sonic/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Body string `json:"body"`
}

// AddComment handles POST /posts/:postId/comments
// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body createCommentRequest true "Comment"
// @Success 201 {object} service.CommentResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{postId}/comments [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	postID := c.Params("postId")
	resp, err := s.commentService.AddComment(c.UserContext(), postID, middleware.CurrentUserID(c), req.Body)
	if err != nil {
		return err
	}

	c.Location(fmt.Sprintf("/posts/%s/comments?page=1&pageSize=%d", url.PathEscape(postID), commentsPageSize))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetComments handles GET /posts/:postId/comments
// @Summary List comments
// @Description Live comments, oldest first
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} models.Page[service.CommentResponse]
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{postId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c, commentsPageSize)
	resp, err := s.commentService.GetCommentsForPost(c.UserContext(), c.Params("postId"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteComment handles DELETE /comments/:id
// @Summary Delete comment
// @Description Soft-deletes a comment. Author or admin only.
// @Tags comments
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 204
// @Failure 403 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if err := s.commentService.DeleteComment(c.UserContext(), c.Params("id"), actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
