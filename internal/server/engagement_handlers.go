// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"kindnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLike(c.Context(), actor, postID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetLikeStatus handles GET /api/posts/:id/liked. It fails closed: anonymous
// viewers read as not-liked.
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked := s.engagementService.HasLiked(c.Context(), s.viewerActor(c), postID)
	return c.JSON(fiber.Map{"is_liked": liked})
}

// AddComment handles POST /api/posts/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.engagementService.AddComment(c.Context(), actor, postID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.engagementService.ListComments(c.Context(), postID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	commentID := c.Params("commentId")
	if commentID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	result, err := s.engagementService.DeleteComment(c.Context(), actor, commentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// ToggleFollow handles POST /api/follows/:kind/:targetId
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	target, err := s.parseTargetActor(c)
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleFollow(c.Context(), actor, target)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetFollowStatus handles GET /api/follows/:kind/:targetId/status. It fails
// closed: on any lookup problem the answer is not-following.
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	target, err := s.parseTargetActor(c)
	if err != nil {
		return nil
	}

	following := s.engagementService.FollowStatus(c.Context(), actor, target)
	return c.JSON(fiber.Map{"is_following": following})
}
