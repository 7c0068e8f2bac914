// Command main runs the database seeder for Platebook.
package main

import (
	"flag"
	"log"

	"platebook/internal/config"
	"platebook/internal/database"
	"platebook/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numRecipes := flag.Int("recipes", 100, "Number of recipes to create")
	maxComments := flag.Int("comments", 5, "Maximum comments per recipe")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d recipes, clean=%v\n", *numUsers, *numRecipes, *shouldClean)

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

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	recipes, err := s.SeedRecipes(users, *numRecipes)
	if err != nil {
		log.Fatalf("Recipe seeding failed: %v", err)
	}
	if _, err := s.SeedComments(users, recipes, *maxComments); err != nil {
		log.Fatalf("Comment seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Printf("All test users have the password: %s", seed.SeedPassword)
}
