package repository

import (
	"context"
	"errors"
	"time"

	"platebook/internal/cache"
	"platebook/internal/models"
	"platebook/internal/observability"

	"gorm.io/gorm"
)

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetByIDWithComments(ctx context.Context, id uint) (*models.Recipe, error)
	ListAll(ctx context.Context) ([]models.Recipe, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// authorPreload keeps the loaded author to its public columns.
func authorPreload(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "full_name", "profile_picture")
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	key := cache.RecipeKey(id)

	err := cache.Aside(ctx, key, &recipe, cache.RecipeTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("User", authorPreload).
			First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetByIDWithComments(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("User", authorPreload).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.User", authorPreload).
		First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe")
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) ListAll(ctx context.Context) ([]models.Recipe, error) {
	defer observability.ObserveQuery("list", "recipes", time.Now())

	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("User", authorPreload).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) ListByUser(ctx context.Context, userID uint) ([]models.Recipe, error) {
	defer observability.ObserveQuery("list_by_user", "recipes", time.Now())

	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("User", authorPreload).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Omit("User", "Comments").Save(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, recipe.ID)
	return nil
}

// Delete removes the recipe and its comments in one transaction.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}
