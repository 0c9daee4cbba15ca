package service

import (
	"testing"

	"pawtopia/internal/database"
	"pawtopia/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testRepos bundles repositories backed by a fresh in-memory database.
type testRepos struct {
	users    repository.UserRepository
	listings repository.ListingRepository
	images   repository.ImageRepository
}

func setupTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return testRepos{
		users:    repository.NewUserRepository(db),
		listings: repository.NewListingRepository(db),
		images:   repository.NewImageRepository(db),
	}
}
