// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"platebook/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password every generated account gets.
const SeedPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pastTime spreads generated timestamps over the last maxDays days.
func (f *Factory) pastTime(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample account. Optional
// override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)

	user := &models.User{
		Username:       gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:          gofakeit.Email(),
		Password:       string(hashedPassword),
		FullName:       gofakeit.Name(),
		Headline:       gofakeit.JobTitle(),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CreatedAt:      f.pastTime(180),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("seeding user: %w", err)
	}
	return user, nil
}

// CreateRecipe constructs and persists a sample recipe owned by user.
func (f *Factory) CreateRecipe(user *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	dish := gofakeit.Dinner()

	recipe := &models.Recipe{
		UserID:       user.ID,
		Title:        dish,
		Description:  gofakeit.Sentence(12),
		Ingredients:  f.ingredientList(),
		Instructions: gofakeit.Paragraph(2, 3, 8, "\n"),
		ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		CreatedAt:    f.pastTime(90),
	}

	for _, override := range overrides {
		override(recipe)
	}

	if err := f.db.Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("seeding recipe: %w", err)
	}
	return recipe, nil
}

func (f *Factory) ingredientList() string {
	n := 4 + f.rand.Intn(6)
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%d %s %s", 1+f.rand.Intn(4), gofakeit.RandomString([]string{"cups", "tbsp", "tsp", "grams", "pieces"}), gofakeit.Fruit())
	}
	return out
}

// CreateComment constructs and persists a sample comment by user on recipe.
func (f *Factory) CreateComment(user *models.User, recipe *models.Recipe, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:    user.ID,
		RecipeID:  recipe.ID,
		Content:   gofakeit.Sentence(8 + f.rand.Intn(12)),
		CreatedAt: f.pastTime(30),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("seeding comment: %w", err)
	}
	return comment, nil
}
