package shoppinglist

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"foodgram/domain"
)

const listWidth = 50

// mergeKey identifies an output line. Lines merge only when both the
// normalized name and the exact measurement unit match; the same name in
// grams and in pieces stays two separate lines.
type mergeKey struct {
	name string
	unit string
}

// MergeLines folds raw per-recipe ingredient lines into one summed line per
// (name, unit) pair, sorted case-insensitively by name.
func MergeLines(lines []domain.ShoppingListLine) []domain.ShoppingListItem {
	totals := make(map[mergeKey]int)
	for _, line := range lines {
		key := mergeKey{
			name: strings.ToLower(strings.TrimSpace(line.IngredientName)),
			unit: line.MeasurementUnit,
		}
		totals[key] += line.Amount
	}

	items := make([]domain.ShoppingListItem, 0, len(totals))
	for key, total := range totals {
		items = append(items, domain.ShoppingListItem{
			Name:            key.name,
			MeasurementUnit: key.unit,
			TotalAmount:     total,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// RenderText produces the plain-text shopping list document. An empty cart
// renders a fixed message rather than a zero-item list.
func RenderText(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping List\n")
	b.WriteString(strings.Repeat("=", listWidth))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString("Your shopping cart is empty.\n")
		return b.String()
	}

	for _, item := range items {
		fmt.Fprintf(&b, "• %s (%s) — %d\n",
			capitalize(item.Name), item.MeasurementUnit, item.TotalAmount)
	}

	fmt.Fprintf(&b, "\n\nTotal items: %d", len(items))
	return b.String()
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
