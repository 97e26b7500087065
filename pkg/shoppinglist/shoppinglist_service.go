package shoppinglist

import (
	"context"
	"fmt"
	"time"

	"foodgram/domain"
)

type (
	ShoppingListService interface {
		GenerateText(ctx context.Context, userID string) (string, error)
		GeneratePDF(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingListService struct {
		repository ShoppingListRepository
	}
)

func NewShoppingListService(repository ShoppingListRepository) ShoppingListService {
	return &shoppingListService{repository: repository}
}

func (s *shoppingListService) GenerateText(ctx context.Context, userID string) (string, error) {
	lines, err := s.repository.CollectCartLines(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderText(MergeLines(lines)), nil
}

func (s *shoppingListService) GeneratePDF(ctx context.Context, userID string) ([]byte, error) {
	lines, err := s.repository.CollectCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	cartRecipes, err := s.repository.GetCartRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipes := make([]domain.ShoppingListRecipe, 0, len(cartRecipes))
	for _, r := range cartRecipes {
		author := ""
		if r.Author != nil {
			author = fmt.Sprintf("%s %s", r.Author.FirstName, r.Author.LastName)
		}
		recipes = append(recipes, domain.ShoppingListRecipe{
			Name:       r.Name,
			AuthorName: author,
		})
	}

	return RenderPDF(MergeLines(lines), recipes, time.Now())
}
