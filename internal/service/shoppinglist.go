package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated line of the export: amounts are summed
// across all cart recipes sharing the same (name, unit) ingredient.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListService aggregates the requester's cart into an exportable list.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate folds the cart's recipe ingredients into summed lines keyed by
// (ingredient name, unit), sorted by name.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).Raw(`
		SELECT ingredients.name AS name,
		       ingredients.measurement_unit AS measurement_unit,
		       SUM(recipe_ingredients.amount) AS amount
		FROM shopping_list_entries
		JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_list_entries.recipe_id
		JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id
		WHERE shopping_list_entries.user_id = ?
		GROUP BY ingredients.name, ingredients.measurement_unit
		ORDER BY ingredients.name`, userID).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderText renders the list as a plain-text document.
func (s *ShoppingListService) RenderText(items []ShoppingListItem) []byte {
	var buf bytes.Buffer
	buf.WriteString("Shopping list\n\n")
	for _, item := range items {
		fmt.Fprintf(&buf, "- %s (%s): %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return buf.Bytes()
}

// RenderPDF renders the list as a one-page-per-overflow PDF document.
func (s *ShoppingListService) RenderPDF(items []ShoppingListItem) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Shopping list", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Shopping list")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	for _, item := range items {
		line := item.Name + " (" + item.MeasurementUnit + ") - " + strconv.Itoa(item.Amount)
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
