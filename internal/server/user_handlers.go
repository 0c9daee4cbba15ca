package server

import (
	"pawtopia/internal/models"
	"pawtopia/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /user (admin only).
func (s *Server) GetUsers(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.userService.List(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// GetUser handles GET /user/:id (admin only).
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// CreateUser handles POST /user (admin only). Unlike registration, the role
// in the payload is stored as given.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Create(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /user/:id (admin only).
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Update(c.Context(), id, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetFavorites handles GET /user/favorites/all, resolving the caller's
// favorite ids into listings.
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	listings, err := s.userService.GetFavorites(c.Context(), s.currentUser(c).ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listings)
}

// ToggleFavorite handles POST /user/favorites/:listingId, adding the listing
// to the caller's favorites or removing it when already present.
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "listingId")
	if err != nil {
		return nil
	}

	user, err := s.userService.ToggleFavorite(c.Context(), s.currentUser(c).ID, listingID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
