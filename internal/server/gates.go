package server

import (
	"context"
	"strings"

	"pawtopia/internal/middleware"
	"pawtopia/internal/models"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "currentUser"

// resolveUser is the single place that turns a bearer token into a user
// record. It memoizes the result in locals so stacked gates verify the token
// at most once per request.
func (s *Server) resolveUser(c *fiber.Ctx) (*models.User, error) {
	if user, ok := c.Locals(currentUserKey).(*models.User); ok {
		return user, nil
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || scheme != "Bearer" || token == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		// An unknown subject claim is an auth failure, not a lookup failure.
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	c.Locals(currentUserKey, user)
	c.Locals("userID", user.ID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
	c.SetUserContext(ctx)
	return user, nil
}

// currentUser returns the user attached by a gate, or nil on public paths.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// AuthRequired rejects requests without a valid bearer token and attaches the
// resolved user to the request.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := s.resolveUser(c); err != nil {
			return models.RespondWithError(c, err)
		}
		return c.Next()
	}
}

// AuthOptional attaches the user when a valid bearer token is present but
// lets anonymous requests proceed.
func (s *Server) AuthOptional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _ = s.resolveUser(c)
		return c.Next()
	}
}

// AdminRequired rejects any caller whose role is not paw-admin.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.resolveUser(c)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if !user.UserType.IsAdmin() {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Admin access required"))
		}
		return c.Next()
	}
}

// ListingOwnerRequired admits the listing's creator or an admin. A listing
// that cannot be loaded fails closed as not-owner.
func (s *Server) ListingOwnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.resolveUser(c)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if user.UserType.IsAdmin() {
			return c.Next()
		}

		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		listing, err := s.listingRepo.GetByID(c.Context(), id)
		if err != nil || listing.CreatedBy != user.ID {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Not the owner of this listing"))
		}
		return c.Next()
	}
}
