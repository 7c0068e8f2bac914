package server

import (
	"github.com/gofiber/fiber/v2"

	"platebook/internal/models"
	"platebook/internal/service"
)

func recipeInputFromForm(c *fiber.Ctx) service.RecipeInput {
	return service.RecipeInput{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		Ingredients:  c.FormValue("ingredients"),
		Instructions: c.FormValue("instructions"),
	}
}

// GetAllRecipes returns every recipe with its author, newest first.
func (s *Server) GetAllRecipes(c *fiber.Ctx) error {
	recipes, err := s.recipeService.ListAll(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondList(c, recipes, len(recipes))
}

// GetRecipesByUser returns one user's recipes, newest first.
func (s *Server) GetRecipesByUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	recipes, err := s.recipeService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondList(c, recipes, len(recipes))
}

// GetRecipeByID returns a recipe with its author and full comment
// thread, commenters included.
func (s *Server) GetRecipeByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	recipe, err := s.recipeService.GetByIDWithComments(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "", recipe)
}

// CreateRecipe stores a new recipe owned by the caller. Expects a
// multipart form with text fields and an image file under "imageUrl".
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	in := recipeInputFromForm(c)

	image, err := s.formImage(c, "imageUrl")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	in.Image = image

	recipe, err := s.recipeService.Create(c.UserContext(), callerID(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, "Recipe created", recipe)
}

// EditRecipe updates a recipe owned by the caller. A new image file
// replaces the stored one.
func (s *Server) EditRecipe(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	in := recipeInputFromForm(c)

	image, err := s.formImage(c, "imageUrl")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	in.Image = image

	recipe, err := s.recipeService.Update(c.UserContext(), callerID(c), id, in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Recipe updated", recipe)
}

// DeleteRecipe removes a recipe owned by the caller, together with its
// comments and hosted image.
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.recipeService.Delete(c.UserContext(), callerID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Recipe deleted", nil)
}
