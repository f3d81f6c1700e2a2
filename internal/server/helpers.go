// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"strings"
	"unicode"

	"kindnest/internal/middleware"
	"kindnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "targetId" -> "target ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentActor extracts the authenticated actor from the request. On
// anonymous requests it writes a 401 response and returns errResponseWritten.
func (s *Server) currentActor(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Must be logged in"))
		return models.Actor{}, errResponseWritten
	}
	return actor, nil
}

// viewerActor extracts the actor on endpoints where authentication is
// optional. The zero Actor stands in for anonymous viewers.
func (s *Server) viewerActor(c *fiber.Ctx) models.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

// parseTargetActor extracts a follow target from :kind and :targetId route
// parameters. On failure it writes a 400 response and returns
// errResponseWritten.
func (s *Server) parseTargetActor(c *fiber.Ctx) (models.Actor, error) {
	kind, err := models.ParseActorKind(c.Params("kind"))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return models.Actor{}, errResponseWritten
	}
	id, err := s.parseID(c, "targetId")
	if err != nil {
		return models.Actor{}, errResponseWritten
	}
	return models.Actor{Kind: kind, ID: id}, nil
}

// statusForError maps an AppError code onto an HTTP status.
func statusForError(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeValidation, models.CodeSelfFollow:
		return fiber.StatusBadRequest
	case models.CodeInvalidReference:
		return fiber.StatusConflict
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err with the status derived from its code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
