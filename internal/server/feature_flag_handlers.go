package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns configured feature flags and their evaluated state
// for the requesting actor. Anonymous requests evaluate percentage rollouts
// as disabled.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	actor := s.viewerActor(c)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(actor.ID),
	})
}
