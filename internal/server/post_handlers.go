package server

import (
	"sonic/internal/middleware"
	"sonic/internal/models"
	"sonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	ExternalLink *string  `json:"externalLink"`
	CampaignGoal *string  `json:"campaignGoal"`
}

type updatePostRequest struct {
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	ExternalLink *string  `json:"externalLink"`
	CampaignGoal *string  `json:"campaignGoal"`
}

// GetFeed handles GET /posts
// @Summary Post feed
// @Description Paginated feed, newest first. Filters combine with AND.
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param type query string false "Post type" Enums(Experience, Idea, ModelGuide, Course, News, Campaign)
// @Param tag query []string false "Tags (repeatable or comma separated)"
// @Param q query string false "Case-insensitive title/body search"
// @Param featured query bool false "Featured flag"
// @Success 200 {object} models.Page[service.PostResponse]
// @Failure 400 {object} models.ProblemDetails
// @Router /posts [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	in, err := parseFeedInput(c)
	if err != nil {
		return err
	}

	page, err := s.postService.GetFeed(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetCampaigns handles GET /campaigns
// @Summary Campaign feed
// @Tags campaigns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param tag query []string false "Tags"
// @Param q query string false "Search"
// @Param featured query bool false "Featured flag"
// @Success 200 {object} models.Page[service.PostResponse]
// @Router /campaigns [get]
func (s *Server) GetCampaigns(c *fiber.Ctx) error {
	in, err := parseFeedInput(c)
	if err != nil {
		return err
	}
	campaign := models.PostTypeCampaign
	in.Type = &campaign

	page, err := s.postService.GetFeed(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// CreatePost handles POST /posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "Post"
// @Success 200 {object} service.PostResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 401 {object} models.ProblemDetails
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	postType, ok := models.ParsePostType(req.Type)
	if !ok {
		postType = models.PostType(req.Type)
	}

	resp, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Type:         postType,
		Title:        req.Title,
		Body:         req.Body,
		Tags:         req.Tags,
		ExternalLink: req.ExternalLink,
		CampaignGoal: req.CampaignGoal,
	}, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetPost handles GET /posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} service.PostResponse
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	resp, err := s.postService.GetPostByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdatePost handles PUT /posts/:id
// @Summary Update post
// @Description Only the author or an admin may update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body updatePostRequest true "Post content"
// @Success 200 {object} service.PostResponse
// @Failure 400 {object} models.ProblemDetails
// @Failure 403 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := s.postService.UpdatePost(c.UserContext(), c.Params("id"), service.UpdatePostInput{
		Title:        req.Title,
		Body:         req.Body,
		Tags:         req.Tags,
		ExternalLink: req.ExternalLink,
		CampaignGoal: req.CampaignGoal,
	}, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeletePost handles DELETE /posts/:id
// @Summary Delete post
// @Description Soft-deletes the post. Likes and participations are kept.
// @Tags posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 403 {object} models.ProblemDetails
// @Failure 404 {object} models.ProblemDetails
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), c.Params("id"), actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
