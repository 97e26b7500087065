package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/shoppinglist"
)

type (
	ShoppingListHandler interface {
		DownloadShoppingList(c *fiber.Ctx) error
	}

	shoppingListHandler struct {
		shoppingListService shoppinglist.ShoppingListService
	}
)

func NewShoppingListHandler(shoppingListService shoppinglist.ShoppingListService) ShoppingListHandler {
	return &shoppingListHandler{shoppingListService: shoppingListService}
}

// DownloadShoppingList streams the aggregated cart as a text attachment, or
// as a PDF when ?format=pdf is given.
func (h *shoppingListHandler) DownloadShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if c.Query("format", "txt") == "pdf" {
		data, err := h.shoppingListService.GeneratePDF(c.Context(), userID)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDownloadList, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.pdf"`)
		return c.Send(data)
	}

	text, err := h.shoppingListService.GenerateText(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDownloadList, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.SendString(text)
}
