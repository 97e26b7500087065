package shoppinglist

import (
	"context"

	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	ShoppingListRepository interface {
		CollectCartLines(ctx context.Context, userID string) ([]domain.ShoppingListLine, error)
		GetCartRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) CollectCartLines(ctx context.Context, userID string) ([]domain.ShoppingListLine, error) {
	var rows []struct {
		IngredientName  string
		MeasurementUnit string
		Amount          int
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS ingredient_name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN user_recipe_links ON user_recipe_links.recipe_id = recipe_ingredients.recipe_id").
		Where("user_recipe_links.user_id = ? AND user_recipe_links.kind = ?", userID, entities.LinkKindCart).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]domain.ShoppingListLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.ShoppingListLine{
			IngredientName:  row.IngredientName,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return lines, nil
}

func (r *shoppingListRepository) GetCartRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN user_recipe_links ON user_recipe_links.recipe_id = recipes.id").
		Where("user_recipe_links.user_id = ? AND user_recipe_links.kind = ?", userID, entities.LinkKindCart).
		Order("recipes.name").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
