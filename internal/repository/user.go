// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"pawtopia/internal/cache"
	"pawtopia/internal/models"
	"pawtopia/internal/query"

	"gorm.io/gorm"
)

// userQueryResource is the query whitelist for the users collection.
var userQueryResource = query.Resource{
	Columns: map[string]string{
		"id":        "id",
		"username":  "username",
		"email":     "email",
		"firstName": "first_name",
		"lastName":  "last_name",
		"userType":  "user_type",
		"country":   "country",
		"city":      "city",
		"createdAt": "created_at",
	},
	JSONColumns: map[string]string{
		"surveyResults": "survey_results",
	},
	TextColumns: []string{"username", "email", "first_name", "last_name"},
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, q *query.Query) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if field, ok := duplicateField(err); ok {
			return models.NewDuplicateError(field)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update persists the user's mutable fields. The password column is never
// written here: the cache strips the hash on round-trips (json:"-"), so a
// cached load carries an empty password and a full-row save would persist it.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("password").Save(user).Error; err != nil {
		if field, ok := duplicateField(err); ok {
			return models.NewDuplicateError(field)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) List(ctx context.Context, q *query.Query) ([]models.User, int64, error) {
	filterScope, err := userQueryResource.Scope(q)
	if err != nil {
		return nil, 0, err
	}
	pageScope, err := userQueryResource.PageScope(q)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := filterScope(r.db.WithContext(ctx).Model(&models.User{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := pageScope(filterScope(r.db.WithContext(ctx))).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

// duplicateField inspects a store error for a unique-constraint violation and
// extracts the offending field name from the conflict report.
func duplicateField(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, sqlite "UNIQUE constraint failed"
	if !strings.Contains(msg, "duplicate key") &&
		!strings.Contains(msg, "unique constraint") &&
		!strings.Contains(msg, "23505") {
		return "", false
	}
	for _, field := range []string{"username", "email"} {
		if strings.Contains(msg, field) {
			return field, true
		}
	}
	return "field", true
}
