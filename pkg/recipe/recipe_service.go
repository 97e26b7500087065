package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeListFilter, viewerID string) ([]domain.RecipeResponse, int64, error)
		GetRecipeLink(ctx context.Context, recipeID string, appURL string) (domain.RecipeLinkResponse, error)

		AddToCollection(ctx context.Context, recipeID, userID, kind string) (domain.RecipeMinified, error)
		RemoveFromCollection(ctx context.Context, recipeID, userID, kind string) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		s3                   storage.AwsS3
		limits               domain.Limits
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	s3 storage.AwsS3,
	limits domain.Limits,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		s3:                   s3,
		limits:               limits,
	}
}

// validateIngredients enforces the recipe-ingredient invariants: at least
// one line, no duplicate ingredient references, every amount within bounds,
// every referenced ingredient present in the catalog.
func (s *recipeService) validateIngredients(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]uuid.UUID, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoIngredients
	}

	seen := make(map[string]bool, len(reqs))
	ids := make([]uuid.UUID, 0, len(reqs))
	rawIDs := make([]string, 0, len(reqs))
	for _, line := range reqs {
		if seen[line.ID] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[line.ID] = true

		if line.Amount < s.limits.MinIngredientAmount || line.Amount > s.limits.MaxIngredientAmount {
			return nil, domain.ErrAmountOutOfRange
		}

		id, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		ids = append(ids, id)
		rawIDs = append(rawIDs, line.ID)
	}

	existing, err := s.ingredientRepository.GetIngredientsByIDs(ctx, rawIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	return ids, nil
}

func (s *recipeService) uploadImage(image string, recipeID uuid.UUID) (string, error) {
	data, contentType, err := storage.DecodeBase64Image(image, s.limits.MaxImageSizeBytes)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s.jpg", recipeID)
	objectKey, err := s.s3.UploadFile(fileName, data, contentType, "recipes", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if req.CookingTime < s.limits.MinCookingTime || req.CookingTime > s.limits.MaxCookingTime {
		return domain.RecipeResponse{}, domain.ErrCookingTimeOutOfRange
	}
	if req.Image == "" {
		return domain.RecipeResponse{}, domain.ErrImageRequired
	}

	ingredientIDs, err := s.validateIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipeID := uuid.New()
	imageURL, err := s.uploadImage(req.Image, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    userUUID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}
	lines := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for i, line := range req.Ingredients {
		lines = append(lines, &entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ingredientIDs[i],
			Amount:       line.Amount,
		})
	}

	if err := s.recipeRepository.CreateRecipeWithIngredients(ctx, recipe, lines); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipeID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	if existing.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	if req.CookingTime < s.limits.MinCookingTime || req.CookingTime > s.limits.MaxCookingTime {
		return domain.RecipeResponse{}, domain.ErrCookingTimeOutOfRange
	}

	ingredientIDs, err := s.validateIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL := existing.ImageURL
	if req.Image != "" {
		imageURL, err = s.uploadImage(req.Image, existing.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipe := &entities.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}
	lines := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for i, line := range req.Ingredients {
		lines = append(lines, &entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     existing.ID,
			IngredientID: ingredientIDs[i],
			Amount:       line.Amount,
		})
	}

	if err := s.recipeRepository.UpdateRecipeWithIngredients(ctx, recipe, lines); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	if existing.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	if existing.ImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(existing.ImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	responses, err := s.toResponses(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return responses[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeListFilter, viewerID string) ([]domain.RecipeResponse, int64, error) {
	filter.Page, filter.Limit = s.limits.NormalizePage(filter.Page, filter.Limit)

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.toResponses(ctx, recipes, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return responses, count, nil
}

func (s *recipeService) GetRecipeLink(ctx context.Context, recipeID string, appURL string) (domain.RecipeLinkResponse, error) {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeLinkResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeLinkResponse{}, err
	}
	return domain.RecipeLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s", appURL, recipeID),
	}, nil
}

// AddToCollection inserts the membership row and lets the unique constraint
// decide whether the pair already exists; there is no read-before-write.
func (s *recipeService) AddToCollection(ctx context.Context, recipeID, userID, kind string) (domain.RecipeMinified, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeMinified{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeMinified{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeMinified{}, domain.ErrParseUUID
	}

	link := &entities.UserRecipeLink{
		ID:       uuid.New(),
		UserID:   userUUID,
		RecipeID: recipe.ID,
		Kind:     kind,
	}
	if err := s.recipeRepository.AddLink(ctx, link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeMinified{}, conflictError(kind)
		}
		return domain.RecipeMinified{}, err
	}

	return domain.RecipeMinified{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) RemoveFromCollection(ctx context.Context, recipeID, userID, kind string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	rows, err := s.recipeRepository.RemoveLink(ctx, userID, recipeID, kind)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundError(kind)
	}
	return nil
}

func conflictError(kind string) error {
	if kind == entities.LinkKindCart {
		return domain.ErrAlreadyInCart
	}
	return domain.ErrAlreadyInFavorites
}

func notFoundError(kind string) error {
	if kind == entities.LinkKindCart {
		return domain.ErrNotInCart
	}
	return domain.ErrNotInFavorites
}

func (s *recipeService) toResponses(ctx context.Context, recipes []*entities.Recipe, viewerID string) ([]domain.RecipeResponse, error) {
	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}

	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	if viewerID != "" {
		favIDs, err := s.recipeRepository.GetLinkedRecipeIDs(ctx, viewerID, entities.LinkKindFavorite, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range favIDs {
			favorited[id] = true
		}

		cartIDs, err := s.recipeRepository.GetLinkedRecipeIDs(ctx, viewerID, entities.LinkKindCart, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range cartIDs {
			inCart[id] = true
		}
	}

	responses := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res := domain.RecipeResponse{
			ID:               r.ID.String(),
			Name:             r.Name,
			Text:             r.Text,
			Image:            r.ImageURL,
			CookingTime:      r.CookingTime,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			CreatedAt:        r.CreatedAt,
		}
		if r.Author != nil {
			res.Author = domain.UserResponse{
				ID:        r.Author.ID.String(),
				Email:     r.Author.Email,
				Username:  r.Author.Username,
				FirstName: r.Author.FirstName,
				LastName:  r.Author.LastName,
				Avatar:    r.Author.AvatarURL,
			}
		}
		res.Ingredients = make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, line := range r.Ingredients {
			ingRes := domain.RecipeIngredientResponse{
				ID:     line.IngredientID.String(),
				Amount: line.Amount,
			}
			if line.Ingredient != nil {
				ingRes.Name = line.Ingredient.Name
				ingRes.MeasurementUnit = line.Ingredient.MeasurementUnit
			}
			res.Ingredients = append(res.Ingredients, ingRes)
		}
		responses = append(responses, res)
	}
	return responses, nil
}
