// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"kindnest/internal/models"
	"kindnest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	if !actor.IsChild() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only child profiles can publish posts"))
	}

	var req struct {
		Caption  string `json:"caption"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		ChildID:  actor.ID,
		Caption:  req.Caption,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:  p.Limit,
		Offset: p.Offset,
		Viewer: s.viewerActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, s.viewerActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// GetChildPosts handles GET /api/profiles/:id/posts
func (s *Server) GetChildPosts(c *fiber.Ctx) error {
	childID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.GetChildPosts(c.Context(), childID, p.Limit, p.Offset, s.viewerActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	if !actor.IsChild() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the owning child can delete a post"))
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), actor.ID, postID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"deleted": true})
}
