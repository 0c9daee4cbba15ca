package server

import (
	"errors"

	"pawtopia/internal/models"
	"pawtopia/internal/query"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseQuery builds the normalized list-query descriptor from the request's
// skip/limit/text/sort/filter parameters.
func parseQuery(c *fiber.Ctx) (*query.Query, error) {
	return query.Parse(query.Params{
		Skip:   c.QueryInt("skip", query.DefaultSkip),
		Limit:  c.QueryInt("limit", query.DefaultLimit),
		Text:   c.Query("text"),
		Sort:   c.Query("sort"),
		Filter: c.Query("filter"),
	})
}
