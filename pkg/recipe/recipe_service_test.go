package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/ingredient"
)

type recipeFixture struct {
	db      *gorm.DB
	s3      *testutil.FakeS3
	service RecipeService

	author uuid.UUID
	salt   uuid.UUID
	sugar  uuid.UUID
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	s3 := testutil.NewFakeS3()

	recipeRepo := NewRecipeRepository(db)
	ingredientRepo := ingredient.NewIngredientRepository(db)
	service := NewRecipeService(recipeRepo, ingredientRepo, s3, domain.DefaultLimits())

	f := &recipeFixture{
		db:      db,
		s3:      s3,
		service: service,
		author:  uuid.New(),
		salt:    uuid.New(),
		sugar:   uuid.New(),
	}

	user := entities.User{
		ID: f.author, Email: "author@example.com", Username: "author",
		FirstName: "Ada", LastName: "Byron", PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, ing := range []entities.Ingredient{
		{ID: f.salt, Name: "Salt", MeasurementUnit: "g"},
		{ID: f.sugar, Name: "Sugar", MeasurementUnit: "g"},
	} {
		if err := db.Create(&ing).Error; err != nil {
			t.Fatalf("create ingredient: %v", err)
		}
	}
	return f
}

func (f *recipeFixture) validCreateRequest(t *testing.T) domain.CreateRecipeRequest {
	t.Helper()
	return domain.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "boil everything",
		CookingTime: 30,
		Image:       testutil.Base64PNG(t),
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.salt.String(), Amount: 200},
		},
	}
}

func TestCreateRecipePersistsIngredientLines(t *testing.T) {
	f := newRecipeFixture(t)

	req := f.validCreateRequest(t)
	req.Ingredients = append(req.Ingredients,
		domain.RecipeIngredientRequest{ID: f.sugar.String(), Amount: 50})

	res, err := f.service.CreateRecipe(context.Background(), req, f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	if res.Author.Username != "author" {
		t.Fatalf("author not attached to response: %+v", res.Author)
	}
	if len(res.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredient lines, got %d", len(res.Ingredients))
	}
	if res.Image == "" {
		t.Fatalf("expected uploaded image URL on response")
	}
	if len(f.s3.Uploaded) != 1 {
		t.Fatalf("expected exactly one upload, got %d", len(f.s3.Uploaded))
	}

	var count int64
	if err := f.db.Model(&entities.RecipeIngredient{}).Count(&count).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 persisted lines, got %d", count)
	}
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newRecipeFixture(t)
	limits := domain.DefaultLimits()

	tests := []struct {
		name    string
		mutate  func(req *domain.CreateRecipeRequest)
		wantErr error
	}{
		{
			name:    "no ingredients",
			mutate:  func(req *domain.CreateRecipeRequest) { req.Ingredients = nil },
			wantErr: domain.ErrNoIngredients,
		},
		{
			name: "duplicate ingredient",
			mutate: func(req *domain.CreateRecipeRequest) {
				req.Ingredients = append(req.Ingredients, req.Ingredients[0])
			},
			wantErr: domain.ErrDuplicateIngredient,
		},
		{
			name: "amount below minimum",
			mutate: func(req *domain.CreateRecipeRequest) {
				req.Ingredients[0].Amount = limits.MinIngredientAmount - 1
			},
			wantErr: domain.ErrAmountOutOfRange,
		},
		{
			name: "amount above maximum",
			mutate: func(req *domain.CreateRecipeRequest) {
				req.Ingredients[0].Amount = limits.MaxIngredientAmount + 1
			},
			wantErr: domain.ErrAmountOutOfRange,
		},
		{
			name: "unknown ingredient",
			mutate: func(req *domain.CreateRecipeRequest) {
				req.Ingredients[0].ID = uuid.New().String()
			},
			wantErr: domain.ErrIngredientNotFound,
		},
		{
			name: "cooking time below minimum",
			mutate: func(req *domain.CreateRecipeRequest) {
				req.CookingTime = limits.MinCookingTime - 1
			},
			wantErr: domain.ErrCookingTimeOutOfRange,
		},
		{
			name: "cooking time above maximum",
			mutate: func(req *domain.CreateRecipeRequest) {
				req.CookingTime = limits.MaxCookingTime + 1
			},
			wantErr: domain.ErrCookingTimeOutOfRange,
		},
		{
			name:    "missing image",
			mutate:  func(req *domain.CreateRecipeRequest) { req.Image = "" },
			wantErr: domain.ErrImageRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.validCreateRequest(t)
			tt.mutate(&req)

			_, err := f.service.CreateRecipe(context.Background(), req, f.author.String())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateRecipeReplacesIngredientSet(t *testing.T) {
	f := newRecipeFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	update := domain.UpdateRecipeRequest{
		Name:        "Sweet soup",
		Text:        "boil sweetly",
		CookingTime: 45,
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.sugar.String(), Amount: 75},
		},
	}
	updated, err := f.service.UpdateRecipe(context.Background(), created.ID, update, f.author.String())
	if err != nil {
		t.Fatalf("update recipe: %v", err)
	}

	if updated.Name != "Sweet soup" || updated.CookingTime != 45 {
		t.Fatalf("fields not updated: %+v", updated)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].Name != "Sugar" {
		t.Fatalf("ingredient set not replaced: %+v", updated.Ingredients)
	}
	if updated.Image != created.Image {
		t.Fatalf("image must be kept when the update omits it")
	}

	var count int64
	if err := f.db.Model(&entities.RecipeIngredient{}).Count(&count).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if count != 1 {
		t.Fatalf("stale ingredient lines left behind: %d", count)
	}
}

func TestUpdateRecipeRejectsNonAuthor(t *testing.T) {
	f := newRecipeFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	stranger := entities.User{
		ID: uuid.New(), Email: "other@example.com", Username: "other", PasswordHash: "x",
	}
	if err := f.db.Create(&stranger).Error; err != nil {
		t.Fatalf("create stranger: %v", err)
	}

	update := domain.UpdateRecipeRequest{
		Name: "Hijacked", Text: "x", CookingTime: 5,
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.salt.String(), Amount: 1}},
	}
	if _, err := f.service.UpdateRecipe(context.Background(), created.ID, update, stranger.ID.String()); !errors.Is(err, domain.ErrNotRecipeAuthor) {
		t.Fatalf("got %v, want ErrNotRecipeAuthor", err)
	}
	if err := f.service.DeleteRecipe(context.Background(), created.ID, stranger.ID.String()); !errors.Is(err, domain.ErrNotRecipeAuthor) {
		t.Fatalf("got %v, want ErrNotRecipeAuthor", err)
	}
}

func TestDeleteRecipeRemovesStoredImage(t *testing.T) {
	f := newRecipeFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	if err := f.service.DeleteRecipe(context.Background(), created.ID, f.author.String()); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}

	if len(f.s3.Deleted) != 1 {
		t.Fatalf("expected stored image to be deleted, got %v", f.s3.Deleted)
	}
	if _, err := f.service.GetRecipeDetail(context.Background(), created.ID, ""); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("got %v, want ErrRecipeNotFound", err)
	}
}

func TestAddToCollectionConflictsOnSecondInsert(t *testing.T) {
	f := newRecipeFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	viewer := f.author.String()

	tests := []struct {
		kind     string
		conflict error
	}{
		{entities.LinkKindFavorite, domain.ErrAlreadyInFavorites},
		{entities.LinkKindCart, domain.ErrAlreadyInCart},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			mini, err := f.service.AddToCollection(context.Background(), created.ID, viewer, tt.kind)
			if err != nil {
				t.Fatalf("first add: %v", err)
			}
			if mini.ID != created.ID || mini.Name != "Soup" {
				t.Fatalf("unexpected minified recipe: %+v", mini)
			}

			if _, err := f.service.AddToCollection(context.Background(), created.ID, viewer, tt.kind); !errors.Is(err, tt.conflict) {
				t.Fatalf("second add: got %v, want %v", err, tt.conflict)
			}

			var count int64
			if err := f.db.Model(&entities.UserRecipeLink{}).
				Where("kind = ?", tt.kind).Count(&count).Error; err != nil {
				t.Fatalf("count links: %v", err)
			}
			if count != 1 {
				t.Fatalf("expected exactly one %s row, got %d", tt.kind, count)
			}
		})
	}
}

func TestRemoveFromCollectionAbsentLink(t *testing.T) {
	f := newRecipeFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	viewer := f.author.String()

	if err := f.service.RemoveFromCollection(context.Background(), created.ID, viewer, entities.LinkKindFavorite); !errors.Is(err, domain.ErrNotInFavorites) {
		t.Fatalf("got %v, want ErrNotInFavorites", err)
	}
	if err := f.service.RemoveFromCollection(context.Background(), created.ID, viewer, entities.LinkKindCart); !errors.Is(err, domain.ErrNotInCart) {
		t.Fatalf("got %v, want ErrNotInCart", err)
	}

	if _, err := f.service.AddToCollection(context.Background(), created.ID, viewer, entities.LinkKindCart); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if err := f.service.RemoveFromCollection(context.Background(), created.ID, viewer, entities.LinkKindCart); err != nil {
		t.Fatalf("remove from cart: %v", err)
	}
	if err := f.service.RemoveFromCollection(context.Background(), created.ID, viewer, entities.LinkKindCart); !errors.Is(err, domain.ErrNotInCart) {
		t.Fatalf("second remove: got %v, want ErrNotInCart", err)
	}
}

func TestGetRecipesCollectionFlagsAndFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateRecipe(ctx, f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create first recipe: %v", err)
	}
	second := f.validCreateRequest(t)
	second.Name = "Omelet"
	if _, err := f.service.CreateRecipe(ctx, second, f.author.String()); err != nil {
		t.Fatalf("create second recipe: %v", err)
	}

	viewer := f.author.String()
	if _, err := f.service.AddToCollection(ctx, first.ID, viewer, entities.LinkKindFavorite); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	all, total, err := f.service.GetRecipes(ctx, domain.RecipeListFilter{}, viewer)
	if err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("expected 2 recipes, got %d (total %d)", len(all), total)
	}
	for _, r := range all {
		if r.ID == first.ID && !r.IsFavorited {
			t.Fatalf("favorited recipe not flagged: %+v", r)
		}
		if r.IsInShoppingCart {
			t.Fatalf("cart flag set without a cart row: %+v", r)
		}
	}

	favOnly, total, err := f.service.GetRecipes(ctx, domain.RecipeListFilter{IsFavorited: "1"}, viewer)
	if err != nil {
		t.Fatalf("list favorited: %v", err)
	}
	if total != 1 || len(favOnly) != 1 || favOnly[0].ID != first.ID {
		t.Fatalf("favorited filter failed: total %d, %+v", total, favOnly)
	}

	notFav, total, err := f.service.GetRecipes(ctx, domain.RecipeListFilter{IsFavorited: "false"}, viewer)
	if err != nil {
		t.Fatalf("list non-favorited: %v", err)
	}
	if total != 1 || len(notFav) != 1 || notFav[0].ID == first.ID {
		t.Fatalf("falsy filter must exclude favorited recipes: total %d, %+v", total, notFav)
	}

	named, total, err := f.service.GetRecipes(ctx, domain.RecipeListFilter{Search: "ome"}, viewer)
	if err != nil {
		t.Fatalf("search recipes: %v", err)
	}
	if total != 1 || len(named) != 1 || named[0].Name != "Omelet" {
		t.Fatalf("name search failed: total %d, %+v", total, named)
	}
}

func TestGetRecipeLink(t *testing.T) {
	f := newRecipeFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.validCreateRequest(t), f.author.String())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	link, err := f.service.GetRecipeLink(context.Background(), created.ID, "https://foodgram.test")
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	want := "https://foodgram.test/s/" + created.ID
	if link.ShortLink != want {
		t.Fatalf("got %q, want %q", link.ShortLink, want)
	}

	if _, err := f.service.GetRecipeLink(context.Background(), uuid.New().String(), "https://foodgram.test"); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("got %v, want ErrRecipeNotFound", err)
	}
}
