package server

import (
	"pawtopia/internal/auth"
	"pawtopia/internal/models"
	"pawtopia/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// Register handles POST /auth/register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username      string                `json:"username"`
		Password      string                `json:"password"`
		Email         string                `json:"email"`
		FirstName     string                `json:"firstName"`
		LastName      string                `json:"lastName"`
		UserType      models.UserRole       `json:"userType"`
		SurveyResults *models.SurveyResults `json:"surveyResults"`
		Country       string                `json:"country"`
		City          string                `json:"city"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" || req.Email == "" ||
		req.FirstName == "" || req.LastName == "" {
		return models.RespondWithError(c, models.NewValidationError(
			"Username, password, email, firstName and lastName are required"))
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		Password:      hashed,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		UserType:      models.InferRole(req.UserType, req.SurveyResults),
		SurveyResults: datatypes.NewJSONType(req.SurveyResults),
		Country:       req.Country,
		City:          req.City,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /auth/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// GetMe handles GET /auth/user and GET /auth/profile.
func (s *Server) GetMe(c *fiber.Ctx) error {
	return c.JSON(s.currentUser(c))
}

// UpdateProfile handles PUT /auth/profile.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), s.currentUser(c).ID, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
