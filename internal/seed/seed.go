package seed

import (
	"fmt"
	"log"

	"platebook/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll wipes every seeded table, children first.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	for _, model := range []interface{}{&models.Comment{}, &models.Recipe{}, &models.User{}} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("cleaning table: %w", err)
		}
	}
	return nil
}

// SeedUsers creates n accounts and returns them.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", n)
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedRecipes spreads n recipes across the given users and returns them.
func (s *Seeder) SeedRecipes(users []*models.User, n int) ([]*models.Recipe, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own recipes")
	}
	log.Printf("Seeding %d recipes...", n)
	recipes := make([]*models.Recipe, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.factory.rand.Intn(len(users))]
		recipe, err := s.factory.CreateRecipe(owner)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// SeedComments writes up to maxPerRecipe comments on every recipe.
func (s *Seeder) SeedComments(users []*models.User, recipes []*models.Recipe, maxPerRecipe int) (int, error) {
	if maxPerRecipe <= 0 {
		maxPerRecipe = 5
	}
	total := 0
	for _, recipe := range recipes {
		n := s.factory.rand.Intn(maxPerRecipe + 1)
		for i := 0; i < n; i++ {
			commenter := users[s.factory.rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, recipe); err != nil {
				return total, err
			}
			total++
		}
	}
	log.Printf("Seeded %d comments", total)
	return total, nil
}
