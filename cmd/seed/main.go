// Command main runs the database seeder for Pawtopia.
package main

import (
	"flag"
	"log"

	"pawtopia/internal/config"
	"pawtopia/internal/database"
	"pawtopia/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numListings := flag.Int("listings", 60, "Number of listings to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.BootstrapAdmin(); err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	listings, err := s.SeedListings(users, *numListings)
	if err != nil {
		log.Fatalf("Listing seeding failed: %v", err)
	}
	if err := s.SeedFavorites(users, listings); err != nil {
		log.Fatalf("Favorite seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d listings seeded.", len(users), len(listings))
	log.Printf("All test users (including admin) have the password: %s", seed.SeedPassword)
}
