package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"foodgram/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserSubscription{}); err != nil {
		log.Fatalf("Error migrating user subscription database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Fatalf("Error migrating ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.RecipeIngredient{}); err != nil {
		log.Fatalf("Error migrating recipe ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserRecipeLink{}); err != nil {
		log.Fatalf("Error migrating user recipe link database: %v", err)
		return err
	}

	// A user can never follow themselves, enforced by the store itself.
	db.Exec(`ALTER TABLE user_subscriptions
		DROP CONSTRAINT IF EXISTS chk_no_self_subscription;`)
	db.Exec(`ALTER TABLE user_subscriptions
		ADD CONSTRAINT chk_no_self_subscription
		CHECK (subscriber_id <> target_user_id);`)

	fmt.Println("Database migration complete")
	return nil
}
