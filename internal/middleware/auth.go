// Package middleware provides authentication, logging, and metrics
// middleware for the application.
package middleware

import (
	"strings"
	"time"

	"kindnest/internal/auth"
	"kindnest/internal/config"
	"kindnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ActorLocal is the fiber.Ctx Locals key under which the resolved actor is
// stored by ActorRequired and OptionalActor.
const ActorLocal = "actor"

var tokens *auth.Tokens

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	tokens = auth.NewTokens(c.JWTSecret, time.Duration(c.JWTExpiryHours)*time.Hour)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// ActorRequired enforces an authenticated child or parent session. The
// resolved actor is stored in Locals under ActorLocal.
func ActorRequired(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization header required"))
	}

	actor, err := tokens.Resolve(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	c.Locals(ActorLocal, actor)
	return c.Next()
}

// OptionalActor resolves an actor when a valid token is present and
// continues anonymously otherwise. Read endpoints use it so personalized
// fields like Liked degrade instead of rejecting the request.
func OptionalActor(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}

	actor, err := tokens.Resolve(tokenString)
	if err != nil {
		return c.Next()
	}

	c.Locals(ActorLocal, actor)
	return c.Next()
}

// ActorFrom extracts the authenticated actor stored by the middleware.
// ok is false on anonymous requests.
func ActorFrom(c *fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(ActorLocal).(models.Actor)
	return actor, ok
}
