package repository

import (
	"context"
	"errors"

	"pawtopia/internal/models"
	"pawtopia/internal/query"

	"gorm.io/gorm"
)

// imageQueryResource is the query whitelist for the images collection.
var imageQueryResource = query.Resource{
	Columns: map[string]string{
		"id":        "id",
		"filename":  "filename",
		"uploader":  "uploader_id",
		"createdAt": "created_at",
	},
	TextColumns: []string{"filename"},
}

// ImageRepository defines persistence operations for uploaded images.
type ImageRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	Create(ctx context.Context, image *models.Image) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q *query.Query) ([]models.Image, int64, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a new ImageRepository implementation.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Image{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Image", id)
	}
	return nil
}

func (r *imageRepository) List(ctx context.Context, q *query.Query) ([]models.Image, int64, error) {
	filterScope, err := imageQueryResource.Scope(q)
	if err != nil {
		return nil, 0, err
	}
	pageScope, err := imageQueryResource.PageScope(q)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := filterScope(r.db.WithContext(ctx).Model(&models.Image{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var images []models.Image
	if err := pageScope(filterScope(r.db.WithContext(ctx))).Find(&images).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return images, total, nil
}
