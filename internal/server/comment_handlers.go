package server

import (
	"github.com/gofiber/fiber/v2"

	"platebook/internal/models"
)

type commentRequest struct {
	Content string `json:"content"`
}

// GetCommentsByRecipe returns a recipe's comments with their authors,
// newest first.
func (s *Server) GetCommentsByRecipe(c *fiber.Ctx) error {
	recipeID, err := parseIDParam(c, "recipeId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	comments, err := s.commentService.ListByRecipe(c.UserContext(), recipeID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondList(c, comments, len(comments))
}

// GetCommentByID returns a single comment with its author and recipe.
func (s *Server) GetCommentByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	comment, err := s.commentService.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "", comment)
}

// CreateComment attaches a new comment by the caller to a recipe.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	recipeID, err := parseIDParam(c, "recipeId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), callerID(c), recipeID, req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, "Comment created", comment)
}

// EditComment updates a comment owned by the caller.
func (s *Server) EditComment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Update(c.UserContext(), callerID(c), id, req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Comment updated", comment)
}

// DeleteComment removes a comment owned by the caller.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.commentService.Delete(c.UserContext(), callerID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Comment deleted", nil)
}
