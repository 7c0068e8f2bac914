package service

import (
	"context"
	"log/slog"
	"strings"

	"platebook/internal/middleware"
	"platebook/internal/models"
	"platebook/internal/repository"
)

// RecipeInput carries the writable recipe fields.
type RecipeInput struct {
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	Image        *ProcessedImage
}

// RecipeService implements recipe business logic.
type RecipeService struct {
	recipes repository.RecipeRepository
	media   MediaStore
}

// NewRecipeService returns a RecipeService wired to its dependencies.
func NewRecipeService(recipes repository.RecipeRepository, media MediaStore) *RecipeService {
	return &RecipeService{recipes: recipes, media: media}
}

func validateRecipeInput(in RecipeInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return models.NewValidationError("Description is required")
	}
	if strings.TrimSpace(in.Ingredients) == "" {
		return models.NewValidationError("Ingredients are required")
	}
	if strings.TrimSpace(in.Instructions) == "" {
		return models.NewValidationError("Instructions are required")
	}
	return nil
}

// Create stores a new recipe owned by userID. The image is optional;
// when present it is uploaded before the row is written so a failed
// upload never leaves a recipe pointing at a missing picture.
func (s *RecipeService) Create(ctx context.Context, userID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	var url string
	if in.Image != nil {
		uploaded, err := s.media.Upload(ctx, RecipeImageFolder, in.Image.Content, in.Image.ContentType)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		url = uploaded
	}

	recipe := &models.Recipe{
		UserID:       userID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		ImageURL:     url,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		// best effort: do not strand the uploaded object
		if url != "" {
			if delErr := s.media.Delete(ctx, url); delErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to remove orphaned recipe image",
					slog.String("url", url), slog.Any("error", delErr))
			}
		}
		return nil, err
	}
	return s.recipes.GetByID(ctx, recipe.ID)
}

// GetByID returns a recipe with its author.
func (s *RecipeService) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.recipes.GetByID(ctx, id)
}

// GetByIDWithComments returns a recipe with its author and comment thread.
func (s *RecipeService) GetByIDWithComments(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.recipes.GetByIDWithComments(ctx, id)
}

// ListAll returns every recipe, newest first.
func (s *RecipeService) ListAll(ctx context.Context) ([]models.Recipe, error) {
	return s.recipes.ListAll(ctx)
}

// ListByUser returns a user's recipes, newest first.
func (s *RecipeService) ListByUser(ctx context.Context, userID uint) ([]models.Recipe, error) {
	return s.recipes.ListByUser(ctx, userID)
}

// Update edits a recipe. Only the owner may edit; empty form fields
// keep their stored value, and a new image replaces the stored one
// with the previous object removed.
func (s *RecipeService) Update(ctx context.Context, callerID, recipeID uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := models.RequireOwner(recipe.UserID, callerID, "You can only edit your own recipes"); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Title); v != "" {
		recipe.Title = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		recipe.Description = v
	}
	if strings.TrimSpace(in.Ingredients) != "" {
		recipe.Ingredients = in.Ingredients
	}
	if strings.TrimSpace(in.Instructions) != "" {
		recipe.Instructions = in.Instructions
	}

	if in.Image != nil {
		url, err := s.media.Upload(ctx, RecipeImageFolder, in.Image.Content, in.Image.ContentType)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		old := recipe.ImageURL
		recipe.ImageURL = url
		if old != "" {
			if err := s.media.Delete(ctx, old); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to remove replaced recipe image",
					slog.String("url", old), slog.Any("error", err))
			}
		}
	}

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete removes a recipe, its comments and its image. Owner only.
func (s *RecipeService) Delete(ctx context.Context, callerID, recipeID uint) error {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := models.RequireOwner(recipe.UserID, callerID, "You can only delete your own recipes"); err != nil {
		return err
	}

	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		if err := s.media.Delete(ctx, recipe.ImageURL); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove recipe image",
				slog.String("url", recipe.ImageURL), slog.Any("error", err))
		}
	}
	return nil
}
