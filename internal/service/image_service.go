package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pawtopia/internal/models"
	"pawtopia/internal/query"
	"pawtopia/internal/repository"

	"github.com/google/uuid"
)

// ImageService stores uploaded files on disk and tracks them in the images
// collection.
type ImageService struct {
	imageRepo repository.ImageRepository
	uploadDir string
}

// UploadImageInput is one uploaded file plus its uploader, if authenticated.
type UploadImageInput struct {
	Filename   string
	Content    []byte
	UploaderID *uint
}

// NewImageService returns a new ImageService writing files under uploadDir.
func NewImageService(imageRepo repository.ImageRepository, uploadDir string) *ImageService {
	return &ImageService{imageRepo: imageRepo, uploadDir: uploadDir}
}

// Upload writes the file to disk under a unique name and records it.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (*models.Image, error) {
	if in.Filename == "" || len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}

	stored := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(in.Filename))
	path := filepath.Join(s.uploadDir, stored)
	if err := os.WriteFile(path, in.Content, 0o644); err != nil {
		return nil, models.NewInternalError(err)
	}

	image := &models.Image{
		Filename:   in.Filename,
		Path:       path,
		UploaderID: in.UploaderID,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		// The record is the source of truth; don't leave an orphan file.
		_ = os.Remove(path)
		return nil, err
	}
	return image, nil
}

func (s *ImageService) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	return s.imageRepo.GetByID(ctx, id)
}

func (s *ImageService) GetAll(ctx context.Context, q *query.Query) (models.PaginatedResult[models.Image], error) {
	items, total, err := s.imageRepo.List(ctx, q)
	if err != nil {
		return models.PaginatedResult[models.Image]{}, err
	}
	return models.NewPaginatedResult(items, total), nil
}

// Delete removes the image. Only the uploader or an admin may delete; the
// stored file is unlinked first and the record is only removed once the
// unlink succeeded.
func (s *ImageService) Delete(ctx context.Context, id uint, caller *models.User) error {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !caller.UserType.IsAdmin() {
		if image.UploaderID == nil || *image.UploaderID != caller.ID {
			return models.NewUnauthorizedError("Not allowed to delete this image")
		}
	}

	if err := os.Remove(image.Path); err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return s.imageRepo.Delete(ctx, id)
}
