// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"time"

	"pawtopia/internal/models"
	"pawtopia/internal/query"
	"pawtopia/internal/repository"

	"gorm.io/datatypes"
)

// ListingService owns the listing lifecycle: every new listing starts
// pending, an admin approves it into public visibility or rejects it out of
// existence, and the owner or an admin may edit or delete it at any point.
type ListingService struct {
	listingRepo repository.ListingRepository
}

// ListingInput is the client-supplied part of a listing. Creator and creation
// date are always server-assigned and never read from the client.
type ListingInput struct {
	Title          string                 `json:"title"`
	Details        models.ListingDetails  `json:"details"`
	ContactDetails models.ContactDetails  `json:"contactDetails"`
}

// NewListingService returns a new ListingService.
func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

func (in *ListingInput) validate() error {
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if in.Details.Name == "" {
		return models.NewValidationError("Animal name is required")
	}
	switch in.Details.AnimalType {
	case "cat", "dog", "other":
	default:
		return models.NewValidationError("Animal type must be cat, dog or other")
	}
	if in.Details.Location.Country == "" || in.Details.Location.City == "" {
		return models.NewValidationError("Location country and city are required")
	}
	return nil
}

// GetAll lists listings. Admin callers see every lifecycle state; everyone
// else (including anonymous callers) is constrained to approved listings,
// ANDed with whatever filter the request carries.
func (s *ListingService) GetAll(ctx context.Context, q *query.Query, caller *models.User) (models.PaginatedResult[models.Listing], error) {
	var scopes []repository.Scope
	if caller == nil || !caller.UserType.IsAdmin() {
		scopes = append(scopes, repository.ApprovedOnly)
	}
	items, total, err := s.listingRepo.List(ctx, q, scopes...)
	if err != nil {
		return models.PaginatedResult[models.Listing]{}, err
	}
	return models.NewPaginatedResult(items, total), nil
}

// Search is the public discovery surface: always approved-only, regardless of
// caller identity.
func (s *ListingService) Search(ctx context.Context, q *query.Query) (models.PaginatedResult[models.Listing], error) {
	items, total, err := s.listingRepo.List(ctx, q, repository.ApprovedOnly)
	if err != nil {
		return models.PaginatedResult[models.Listing]{}, err
	}
	return models.NewPaginatedResult(items, total), nil
}

// GetUsersListings lists all listings created by the given user, independent
// of approval state.
func (s *ListingService) GetUsersListings(ctx context.Context, q *query.Query, userID uint) (models.PaginatedResult[models.Listing], error) {
	items, total, err := s.listingRepo.List(ctx, q, repository.CreatedBy(userID))
	if err != nil {
		return models.PaginatedResult[models.Listing]{}, err
	}
	return models.NewPaginatedResult(items, total), nil
}

// GetByID fetches one listing. No approval filter is applied: any caller who
// knows the id can fetch it.
func (s *ListingService) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

// Create stores a new listing in the pending state, owned by creatorID.
func (s *ListingService) Create(ctx context.Context, in ListingInput, creatorID uint) (*models.Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	listing := &models.Listing{
		Title:          in.Title,
		CreatedDate:    time.Now(),
		CreatedBy:      creatorID,
		Details:        datatypes.NewJSONType(in.Details),
		ContactDetails: datatypes.NewJSONType(in.ContactDetails),
		IsApproved:     false,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update replaces the listing's content fields. Creator, creation date and
// approval state are never touched by an update.
func (s *ListingService) Update(ctx context.Context, id uint, in ListingInput) (*models.Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	listing.Title = in.Title
	listing.Details = datatypes.NewJSONType(in.Details)
	listing.ContactDetails = datatypes.NewJSONType(in.ContactDetails)
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Approve transitions a listing to the approved state.
func (s *ListingService) Approve(ctx context.Context, id uint) (*models.Listing, error) {
	return s.listingRepo.SetApproved(ctx, id, true)
}

// Reject removes the listing entirely. Rejection is terminal: the listing
// ceases to exist rather than reverting to pending.
func (s *ListingService) Reject(ctx context.Context, id uint) error {
	return s.listingRepo.Delete(ctx, id)
}

// Delete removes the listing from any state.
func (s *ListingService) Delete(ctx context.Context, id uint) error {
	return s.listingRepo.Delete(ctx, id)
}
