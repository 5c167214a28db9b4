package server

import (
	"strconv"
	"strings"

	"sonic/internal/middleware"
	"sonic/internal/models"
	"sonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

const commentsPageSize = 20

// parsePagination reads page and pageSize from the query string.
// Unparseable or missing values fall back to page 1 and defaultSize.
func parsePagination(c *fiber.Ctx, defaultSize int) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	pageSize = c.QueryInt("pageSize", defaultSize)
	return page, pageSize
}

// parseBody decodes the JSON body into out, reporting malformed or missing bodies as 400.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return models.NewValidationError("request.required", "Request body is required.")
	}
	if err := c.BodyParser(out); err != nil {
		return &models.AppError{
			Status:  fiber.StatusBadRequest,
			Code:    "request.required",
			Message: "Request body is malformed.",
			Err:     err,
		}
	}
	return nil
}

func actorFrom(c *fiber.Ctx) service.Actor {
	return service.Actor{UserID: middleware.CurrentUserID(c), IsAdmin: middleware.IsAdmin(c)}
}

// parseTags accepts ?tag=a&tag=b as well as ?tag=a,b.
func parseTags(c *fiber.Ctx) []string {
	var tags []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("tag") {
		for _, tag := range strings.Split(string(raw), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// parseFeedInput builds the feed filter from the query string.
func parseFeedInput(c *fiber.Ctx) (service.FeedInput, error) {
	page, pageSize := parsePagination(c, models.DefaultPageSize)
	in := service.FeedInput{
		Page:     page,
		PageSize: pageSize,
		Tags:     parseTags(c),
		Search:   strings.TrimSpace(c.Query("q", c.Query("search"))),
	}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		postType, ok := models.ParsePostType(raw)
		if !ok {
			return in, models.NewValidationError("post.invalid_type", "Post type is invalid.")
		}
		in.Type = &postType
	}

	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return in, models.NewValidationError("feed.invalid_featured", "featured must be true or false.")
		}
		in.Featured = &featured
	}
	return in, nil
}
