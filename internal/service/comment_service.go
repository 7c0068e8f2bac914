package service

import (
	"context"
	"strings"

	"platebook/internal/models"
	"platebook/internal/repository"
)

// CommentService implements comment business logic.
type CommentService struct {
	comments repository.CommentRepository
	recipes  repository.RecipeRepository
}

// NewCommentService returns a CommentService wired to its dependencies.
func NewCommentService(comments repository.CommentRepository, recipes repository.RecipeRepository) *CommentService {
	return &CommentService{comments: comments, recipes: recipes}
}

// Create attaches a new comment by userID to the given recipe. The
// recipe must exist.
func (s *CommentService) Create(ctx context.Context, userID, recipeID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:   userID,
		RecipeID: recipeID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// GetByID returns a single comment with its author and recipe.
func (s *CommentService) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// ListByRecipe returns a recipe's comments, newest first. The recipe
// must exist.
func (s *CommentService) ListByRecipe(ctx context.Context, recipeID uint) ([]models.Comment, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.comments.ListByRecipe(ctx, recipeID)
}

// Update edits a comment's content. Only the comment author may edit.
func (s *CommentService) Update(ctx context.Context, callerID, commentID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := models.RequireOwner(comment.UserID, callerID, "You can only edit your own comments"); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. Only the comment author may delete it.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := models.RequireOwner(comment.UserID, callerID, "You can only delete your own comments"); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}
