package server

import (
	"pawtopia/internal/models"
	"pawtopia/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetListings handles GET /listing. Anonymous and non-admin callers only see
// approved listings; admins see everything.
func (s *Server) GetListings(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.listingService.GetAll(c.Context(), q, s.currentUser(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// SearchListings handles GET /listing/search. Approved listings only, for
// every caller.
func (s *Server) SearchListings(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.listingService.Search(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// GetMyListings handles GET /listing/user, returning the caller's own
// listings in every lifecycle state.
func (s *Server) GetMyListings(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.listingService.GetUsersListings(c.Context(), q, s.currentUser(c).ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// GetListing handles GET /listing/:id.
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	listing, err := s.listingService.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listing)
}

// CreateListing handles POST /listing. The new listing is owned by the caller
// and starts out pending approval.
func (s *Server) CreateListing(c *fiber.Ctx) error {
	var req service.ListingInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.Create(c.Context(), req, s.currentUser(c).ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListing handles PUT /listing/:id. Ownership is enforced by the route's
// gate; this only replaces content fields.
func (s *Server) UpdateListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.ListingInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.Update(c.Context(), id, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listing)
}

// DeleteListing handles DELETE /listing/:id.
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.listingService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted"})
}

// ApproveListing handles PUT /listing/:id/approve (admin only).
func (s *Server) ApproveListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	listing, err := s.listingService.Approve(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(listing)
}

// RejectListing handles PUT /listing/:id/reject (admin only). Rejection
// deletes the listing.
func (s *Server) RejectListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.listingService.Reject(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing rejected"})
}
