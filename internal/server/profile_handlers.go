// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"kindnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	childID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetByID(c.Context(), childID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}

// GetProfileByUsername handles GET /api/profiles/username/:username
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid username"))
	}

	profile, err := s.profileService.GetByUsername(c.Context(), username)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}
