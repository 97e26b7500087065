package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"
	MessageSuccessGetLink         = "success get recipe link"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrNotRecipeAuthor       = errors.New("only the author can modify this recipe")
	ErrNoIngredients         = errors.New("recipe must contain at least one ingredient")
	ErrDuplicateIngredient   = errors.New("duplicate ingredient in recipe")
	ErrAmountOutOfRange      = errors.New("ingredient amount out of range")
	ErrCookingTimeOutOfRange = errors.New("cooking time out of range")
	ErrImageRequired         = errors.New("recipe image is required")
	ErrAlreadyInFavorites    = errors.New("recipe already in favorites")
	ErrNotInFavorites        = errors.New("recipe not in favorites")
	ErrAlreadyInCart         = errors.New("recipe already in shopping cart")
	ErrNotInCart             = errors.New("recipe not in shopping cart")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// UpdateRecipeRequest resupplies the full ingredient set; partial
	// ingredient patches are not supported. Image is optional on update,
	// the stored one is kept when it is empty.
	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Image       string                    `json:"image" validate:"omitempty"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           UserResponse               `json:"author"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		Image            string                     `json:"image"`
		CookingTime      int                        `json:"cooking_time"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	RecipeMinified struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeListFilter mirrors the list endpoint's query string. Boolean
	// filters arrive as raw strings; one of "1", "true", "yes", "on"
	// (case-insensitive) counts as true, anything else as false.
	RecipeListFilter struct {
		AuthorID         string
		IsFavorited      string
		IsInShoppingCart string
		Search           string
		Page             int
		Limit            int
	}

	RecipeLinkResponse struct {
		ShortLink string `json:"short-link"`
	}
)
