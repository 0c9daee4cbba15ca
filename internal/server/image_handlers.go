package server

import (
	"io"

	"pawtopia/internal/models"
	"pawtopia/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /image/upload. Expects a multipart form with a
// single "file" part.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	uploaderID := s.currentUser(c).ID
	image, err := s.imageService.Upload(c.Context(), service.UploadImageInput{
		Filename:   fileHeader.Filename,
		Content:    content,
		UploaderID: &uploaderID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// GetImages handles GET /image.
func (s *Server) GetImages(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.imageService.GetAll(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// GetImage handles GET /image/:id, serving the stored file.
func (s *Server) GetImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	image, err := s.imageService.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendFile(image.Path)
}

// DeleteImage handles DELETE /image/:id. Only the uploader or an admin may
// delete.
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.imageService.Delete(c.Context(), id, s.currentUser(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}
