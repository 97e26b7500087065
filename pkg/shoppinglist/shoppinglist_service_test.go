package shoppinglist

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/entities"
	"foodgram/internal/testutil"
)

func seedCart(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	user := entities.User{
		ID:           uuid.New(),
		Email:        "cook@example.com",
		Username:     "cook",
		FirstName:    "Anna",
		LastName:     "Smith",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	salt := entities.Ingredient{ID: uuid.New(), Name: "Salt", MeasurementUnit: "g"}
	egg := entities.Ingredient{ID: uuid.New(), Name: "Egg", MeasurementUnit: "pc"}
	for _, ing := range []*entities.Ingredient{&salt, &egg} {
		if err := db.Create(ing).Error; err != nil {
			t.Fatalf("create ingredient: %v", err)
		}
	}

	soup := entities.Recipe{
		ID: uuid.New(), AuthorID: user.ID,
		Name: "Soup", Text: "boil", CookingTime: 30,
	}
	omelet := entities.Recipe{
		ID: uuid.New(), AuthorID: user.ID,
		Name: "Omelet", Text: "fry", CookingTime: 10,
	}
	for _, r := range []*entities.Recipe{&soup, &omelet} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("create recipe: %v", err)
		}
	}

	lines := []entities.RecipeIngredient{
		{ID: uuid.New(), RecipeID: soup.ID, IngredientID: salt.ID, Amount: 200},
		{ID: uuid.New(), RecipeID: soup.ID, IngredientID: egg.ID, Amount: 1},
		{ID: uuid.New(), RecipeID: omelet.ID, IngredientID: salt.ID, Amount: 100},
		{ID: uuid.New(), RecipeID: omelet.ID, IngredientID: egg.ID, Amount: 2},
	}
	for i := range lines {
		if err := db.Create(&lines[i]).Error; err != nil {
			t.Fatalf("create recipe ingredient: %v", err)
		}
	}

	links := []entities.UserRecipeLink{
		{ID: uuid.New(), UserID: user.ID, RecipeID: soup.ID, Kind: entities.LinkKindCart},
		{ID: uuid.New(), UserID: user.ID, RecipeID: omelet.ID, Kind: entities.LinkKindCart},
		{ID: uuid.New(), UserID: user.ID, RecipeID: soup.ID, Kind: entities.LinkKindFavorite},
	}
	for i := range links {
		if err := db.Create(&links[i]).Error; err != nil {
			t.Fatalf("create link: %v", err)
		}
	}

	return user.ID
}

func TestGenerateTextAggregatesCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	userID := seedCart(t, db)

	service := NewShoppingListService(NewShoppingListRepository(db))

	text, err := service.GenerateText(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("generate text: %v", err)
	}

	if !strings.Contains(text, "• Egg (pc) — 3\n") {
		t.Fatalf("egg amounts not summed across recipes: %q", text)
	}
	if !strings.Contains(text, "• Salt (g) — 300\n") {
		t.Fatalf("salt amounts not summed across recipes: %q", text)
	}
	if !strings.HasSuffix(text, "Total items: 2") {
		t.Fatalf("unexpected footer in %q", text)
	}
}

func TestGenerateTextEmptyCart(t *testing.T) {
	db := testutil.SetupTestDB(t)

	service := NewShoppingListService(NewShoppingListRepository(db))

	text, err := service.GenerateText(context.Background(), uuid.New().String())
	if err != nil {
		t.Fatalf("generate text: %v", err)
	}
	if !strings.Contains(text, "Your shopping cart is empty.") {
		t.Fatalf("expected empty-cart message, got %q", text)
	}
}

func TestGenerateTextIgnoresFavoriteOnlyRecipes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	userID := seedCart(t, db)

	// Drop the cart links but keep the favorite; the list must come out empty.
	if err := db.Where("user_id = ? AND kind = ?", userID, entities.LinkKindCart).
		Delete(&entities.UserRecipeLink{}).Error; err != nil {
		t.Fatalf("delete cart links: %v", err)
	}

	service := NewShoppingListService(NewShoppingListRepository(db))

	text, err := service.GenerateText(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("generate text: %v", err)
	}
	if !strings.Contains(text, "Your shopping cart is empty.") {
		t.Fatalf("favorite-only recipes leaked into the cart: %q", text)
	}
}

func TestGeneratePDFProducesDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	userID := seedCart(t, db)

	service := NewShoppingListService(NewShoppingListRepository(db))

	pdf, err := service.GeneratePDF(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("generate pdf: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Fatalf("output is not a PDF document")
	}
}
