package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"foodgram/domain"
)

// statusForError maps domain sentinel errors onto REST status codes so the
// handlers stay uniform: not-found → 404, authorization → 403, everything
// else (validation, conflicts) → 400.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrNotInFavorites),
		errors.Is(err, domain.ErrNotInCart),
		errors.Is(err, domain.ErrNotSubscribed):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor):
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}
