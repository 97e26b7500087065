package recipe

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	RecipeRepository interface {
		CreateRecipeWithIngredients(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient) error
		UpdateRecipeWithIngredients(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeListFilter, viewerID string) ([]*entities.Recipe, int64, error)
		DeleteRecipe(ctx context.Context, id string) error

		AddLink(ctx context.Context, link *entities.UserRecipeLink) error
		RemoveLink(ctx context.Context, userID, recipeID, kind string) (int64, error)
		GetLinkedRecipeIDs(ctx context.Context, userID, kind string, recipeIDs []uuid.UUID) ([]uuid.UUID, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipeWithIngredients(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return tx.Create(lines).Error
	})
}

// UpdateRecipeWithIngredients replaces the full ingredient set: every prior
// line is deleted and the new set inserted in the same transaction as the
// recipe field update.
func (r *recipeRepository) UpdateRecipeWithIngredients(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image_url":    recipe.ImageURL,
				"cooking_time": recipe.CookingTime,
			}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Create(lines).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeListFilter, viewerID string) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	page, limit := filter.Page, filter.Limit
	offset := (page - 1) * limit

	build := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&entities.Recipe{})
		if filter.AuthorID != "" {
			query = query.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if filter.Search != "" {
			query = query.Where("LOWER(recipes.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
		}
		query = applyLinkFilter(query, filter.IsFavorited, entities.LinkKindFavorite, viewerID)
		query = applyLinkFilter(query, filter.IsInShoppingCart, entities.LinkKindCart, viewerID)
		return query
	}

	if err := build().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := build().
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// applyLinkFilter narrows a recipe query by collection membership for the
// viewing user. An empty raw value leaves the query untouched; a truthy
// value keeps only linked recipes, any other value excludes them.
func applyLinkFilter(query *gorm.DB, raw, kind, viewerID string) *gorm.DB {
	if raw == "" || viewerID == "" {
		return query
	}

	sub := query.Session(&gorm.Session{NewDB: true}).
		Model(&entities.UserRecipeLink{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", viewerID, kind)

	if domain.ParseBoolFilter(raw) {
		return query.Where("recipes.id IN (?)", sub)
	}
	return query.Where("recipes.id NOT IN (?)", sub)
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) AddLink(ctx context.Context, link *entities.UserRecipeLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *recipeRepository) RemoveLink(ctx context.Context, userID, recipeID, kind string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&entities.UserRecipeLink{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) GetLinkedRecipeIDs(ctx context.Context, userID, kind string, recipeIDs []uuid.UUID) ([]uuid.UUID, error) {
	if userID == "" || len(recipeIDs) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.UserRecipeLink{}).
		Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
