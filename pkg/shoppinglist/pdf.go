package shoppinglist

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"foodgram/domain"
)

// RenderPDF lays out the shopping list as a one-page-or-more PDF: title,
// generation timestamp, the cart recipes with their authors, then a
// four-column ingredient table over the same merged data as the text export.
func RenderPDF(items []domain.ShoppingListItem, recipes []domain.ShoppingListRecipe, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Shopping List", false)
	pdf.SetAuthor("Foodgram", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Shopping List", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", now.Format("02.01.2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Recipes:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, r := range recipes {
		pdf.CellFormat(0, 6, fmt.Sprintf("- %s (author: %s)", r.Name, r.AuthorName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	if len(items) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 6, "Your shopping cart is empty.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{12, 88, 35, 45}
		headers := []string{"#", "Ingredient", "Amount", "Unit"}

		pdf.SetFont("Helvetica", "B", 11)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 11)
		for i, item := range items {
			pdf.CellFormat(widths[0], 8, fmt.Sprintf("%d", i+1), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 8, capitalize(item.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", item.TotalAmount), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 8, item.MeasurementUnit, "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
