// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"pawtopia/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPassword is the password every generated test user gets.
const SeedPassword = "password123"

// Seeder populates the database with development data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder using the given database connection.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Order matters: listings reference users.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Image{},
		&models.Listing{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// BootstrapAdmin ensures the built-in admin account exists. It is an upsert:
// running the seeder twice does not duplicate the admin or reset its password.
func (s *Seeder) BootstrapAdmin() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := models.User{
		Username:  "admin",
		Email:     "admin@pawtopia.com",
		Password:  string(hashed),
		FirstName: "Site",
		LastName:  "Admin",
		UserType:  models.RoleAdmin,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if admin.ID == 0 {
		if err := s.db.Where("username = ?", "admin").First(&admin).Error; err != nil {
			return nil, err
		}
	}
	return &admin, nil
}

// SeedUsers creates count regular users split between seekers and guardians.
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	log.Printf("Creating %d users...", count)

	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		first := firstNames[s.rng.Intn(len(firstNames))]
		last := lastNames[s.rng.Intn(len(lastNames))]
		role := models.RoleSeeker
		if i%2 == 1 {
			role = models.RoleGuardian
		}
		place := places[s.rng.Intn(len(places))]

		user := models.User{
			Username:  fmt.Sprintf("%s%s%d", first, last, i),
			Email:     fmt.Sprintf("%s.%s%d@example.com", first, last, i),
			Password:  string(hashed),
			FirstName: first,
			LastName:  last,
			UserType:  role,
			Country:   place.Country,
			City:      place.City,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedListings creates count listings owned by random guardians among the
// given users. Roughly two thirds are pre-approved so the public surface has
// content, the rest stay pending for the admin moderation queue.
func (s *Seeder) SeedListings(users []models.User, count int) ([]models.Listing, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot seed listings without users")
	}
	log.Printf("Creating %d listings...", count)

	listings := make([]models.Listing, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.rng.Intn(len(users))]
		animal := animals[s.rng.Intn(len(animals))]
		place := places[s.rng.Intn(len(places))]

		listing := models.Listing{
			Title:       fmt.Sprintf("%s is looking for a home", animal.Name),
			CreatedDate: time.Now().Add(-time.Duration(s.rng.Intn(60*24)) * time.Hour),
			CreatedBy:   owner.ID,
			Details: datatypes.NewJSONType(models.ListingDetails{
				Name:       animal.Name,
				AnimalType: animal.Type,
				Breed:      animal.Breed,
				Age:        ages[s.rng.Intn(len(ages))],
				Gender:     genders[s.rng.Intn(len(genders))],
				Description: fmt.Sprintf(
					"%s is a friendly %s looking for a caring home.",
					animal.Name, animal.Breed,
				),
				Location:  models.Location{Country: place.Country, City: place.City},
				FromWhere: origins[s.rng.Intn(len(origins))],
				HealthDetails: &models.HealthDetails{
					IsVaccinated: s.rng.Intn(4) != 0,
					IsNeutered:   s.rng.Intn(2) == 0,
				},
			}),
			ContactDetails: datatypes.NewJSONType(models.ContactDetails{
				Email: owner.Email,
				Phone: fmt.Sprintf("+1-555-%04d", s.rng.Intn(10000)),
			}),
			IsApproved: s.rng.Intn(3) != 0,
		}
		if err := s.db.Create(&listing).Error; err != nil {
			return nil, fmt.Errorf("failed to create listing %q: %w", listing.Title, err)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// SeedFavorites marks a few random approved listings as favorites for each
// seeker so favorite resolution has data to work with.
func (s *Seeder) SeedFavorites(users []models.User, listings []models.Listing) error {
	approved := make([]uint, 0, len(listings))
	for _, l := range listings {
		if l.IsApproved {
			approved = append(approved, l.ID)
		}
	}
	if len(approved) == 0 {
		return nil
	}

	for i := range users {
		if users[i].UserType != models.RoleSeeker {
			continue
		}
		n := s.rng.Intn(4)
		favorites := make([]uint, 0, n)
		for j := 0; j < n; j++ {
			favorites = append(favorites, approved[s.rng.Intn(len(approved))])
		}
		users[i].Favorites = datatypes.NewJSONSlice(favorites)
		if err := s.db.Save(&users[i]).Error; err != nil {
			return fmt.Errorf("failed to set favorites for %s: %w", users[i].Username, err)
		}
	}
	return nil
}
