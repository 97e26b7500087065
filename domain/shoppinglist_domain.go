package domain

var (
	MessageSuccessDownloadList = "shopping list generated"
	MessageFailedDownloadList  = "failed to generate shopping list"
)

type (
	// ShoppingListLine is one raw (ingredient, amount) row collected from a
	// recipe in the cart, before merging.
	ShoppingListLine struct {
		IngredientName  string
		MeasurementUnit string
		Amount          int
	}

	// ShoppingListItem is a merged output line: amounts summed over every
	// cart recipe that uses the same (name, unit) pair.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int    `json:"total_amount"`
	}

	// ShoppingListRecipe names a cart recipe for the PDF header.
	ShoppingListRecipe struct {
		Name       string
		AuthorName string
	}
)
