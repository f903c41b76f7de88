package database

import (
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every entity. Ordering
// matters: referenced tables first so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingListEntry{},
	)
}
