package service

import (
	"context"

	"pawtopia/internal/auth"
	"pawtopia/internal/models"
	"pawtopia/internal/query"
	"pawtopia/internal/repository"

	"gorm.io/datatypes"
)

// UserService implements admin user CRUD, profile self-service and the
// favorites set.
type UserService struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
}

// CreateUserInput is the admin user-creation payload. Unlike registration,
// the supplied role is stored as given.
type CreateUserInput struct {
	Username      string                 `json:"username"`
	Email         string                 `json:"email"`
	Password      string                 `json:"password"`
	FirstName     string                 `json:"firstName"`
	LastName      string                 `json:"lastName"`
	UserType      models.UserRole        `json:"userType"`
	SurveyResults *models.SurveyResults  `json:"surveyResults"`
	Country       string                 `json:"country"`
	City          string                 `json:"city"`
}

// UpdateUserInput carries the mutable user fields. The password never moves
// through this path.
type UpdateUserInput struct {
	Username       string                `json:"username"`
	Email          string                `json:"email"`
	FirstName      string                `json:"firstName"`
	LastName       string                `json:"lastName"`
	UserType       models.UserRole       `json:"userType"`
	SurveyResults  *models.SurveyResults `json:"surveyResults"`
	Country        string                `json:"country"`
	City           string                `json:"city"`
	ProfilePicture string                `json:"profilePicture"`
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, listingRepo repository.ListingRepository) *UserService {
	return &UserService{userRepo: userRepo, listingRepo: listingRepo}
}

func (s *UserService) List(ctx context.Context, q *query.Query) (models.PaginatedResult[models.User], error) {
	items, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return models.PaginatedResult[models.User]{}, err
	}
	return models.NewPaginatedResult(items, total), nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Create stores a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, models.NewValidationError("Username, password and email are required")
	}
	role := in.UserType
	if !role.Valid() {
		role = models.RoleOther
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:      in.Username,
		Email:         in.Email,
		Password:      hashed,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		UserType:      role,
		SurveyResults: datatypes.NewJSONType(in.SurveyResults),
		Country:       in.Country,
		City:          in.City,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update replaces the user's mutable fields.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.UserType != "" {
		if !in.UserType.Valid() {
			return nil, models.NewValidationError("Unknown user type")
		}
		user.UserType = in.UserType
	}
	if in.SurveyResults != nil {
		user.SurveyResults = datatypes.NewJSONType(in.SurveyResults)
	}
	if in.Country != "" {
		user.Country = in.Country
	}
	if in.City != "" {
		user.City = in.City
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile is the self-service variant of Update: callers may not change
// their own role through it.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateUserInput) (*models.User, error) {
	in.UserType = ""
	return s.Update(ctx, userID, in)
}

// ToggleFavorite adds the listing id to the user's favorites if absent,
// removes it if present, and returns the updated user.
func (s *UserService) ToggleFavorite(ctx context.Context, userID, listingID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites := []uint(user.Favorites)
	removed := false
	for i, id := range favorites {
		if id == listingID {
			favorites = append(favorites[:i], favorites[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		// Only additions check existence; removal of a stale id must succeed.
		exists, err := s.listingRepo.Exists(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.NewNotFoundError("Listing", listingID)
		}
		favorites = append(favorites, listingID)
	}
	user.Favorites = datatypes.NewJSONSlice(favorites)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetFavorites resolves the user's favorite listings. Favorites hold weak
// references: ids whose listing no longer exists are filtered out here rather
// than pruned on listing deletion.
func (s *UserService) GetFavorites(ctx context.Context, userID uint) ([]models.Listing, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings, err := s.listingRepo.ListByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}
