package repository

import (
	"context"
	"errors"

	"pawtopia/internal/cache"
	"pawtopia/internal/models"
	"pawtopia/internal/query"

	"gorm.io/gorm"
)

// listingQueryResource is the query whitelist for the listings collection.
// Nested detail fields address the JSON document, e.g. "details.animalType".
var listingQueryResource = query.Resource{
	Columns: map[string]string{
		"id":          "id",
		"title":       "title",
		"createdBy":   "created_by",
		"createdDate": "created_date",
		"isApproved":  "is_approved",
	},
	JSONColumns: map[string]string{
		"details":        "details",
		"contactDetails": "contact_details",
	},
	TextColumns: []string{"title"},
}

// Scope is a reusable query constraint applied on top of a request filter.
type Scope = func(*gorm.DB) *gorm.DB

// ApprovedOnly constrains a listing query to approved listings.
func ApprovedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_approved = ?", true)
}

// CreatedBy constrains a listing query to one creator.
func CreatedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by = ?", userID)
	}
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	SetApproved(ctx context.Context, id uint, approved bool) (*models.Listing, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q *query.Query, scopes ...Scope) ([]models.Listing, int64, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Listing, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns a new ListingRepository implementation.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	key := cache.ListingKey(id)

	err := cache.Aside(ctx, key, &listing, cache.ListingTTL, func() error {
		if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Listing", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateListing(ctx, listing.ID)
	return nil
}

func (r *listingRepository) SetApproved(ctx context.Context, id uint, approved bool) (*models.Listing, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Listing", id)
	}
	cache.InvalidateListing(ctx, id)

	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &listing, nil
}

func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Listing{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Listing", id)
	}
	cache.InvalidateListing(ctx, id)
	return nil
}

func (r *listingRepository) List(ctx context.Context, q *query.Query, scopes ...Scope) ([]models.Listing, int64, error) {
	filterScope, err := listingQueryResource.Scope(q)
	if err != nil {
		return nil, 0, err
	}
	pageScope, err := listingQueryResource.PageScope(q)
	if err != nil {
		return nil, 0, err
	}

	constrained := func(db *gorm.DB) *gorm.DB {
		db = filterScope(db)
		for _, s := range scopes {
			db = s(db)
		}
		return db
	}

	var total int64
	if err := constrained(r.db.WithContext(ctx).Model(&models.Listing{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var listings []models.Listing
	if err := pageScope(constrained(r.db.WithContext(ctx))).Find(&listings).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return listings, total, nil
}

func (r *listingRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var listings []models.Listing
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (r *listingRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
