package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/types"
)

// RecipeService handles recipe authoring, retrieval, favorites and the
// shopping cart.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilter narrows recipe listings.
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	FavoritedBy      *uuid.UUID
	InShoppingCartOf *uuid.UUID
	Page             int
	Limit            int
}

func (s *RecipeService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")
}

// GetRecipe retrieves a recipe with author, tags and ingredient amounts loaded.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preloaded(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first, plus the total count.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Model(&models.Tag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedBy != nil {
		favorited := s.db.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InShoppingCartOf != nil {
		carted := s.db.Model(&models.ShoppingListEntry{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.InShoppingCartOf)
		query = query.Where("recipes.id IN (?)", carted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&recipes).Error
	return recipes, total, err
}

// ListRecipesByAuthor returns the author's newest recipes, capped at limit
// (0 means no cap). Used for subscription cards.
func (s *RecipeService) ListRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// CountRecipesByAuthor returns the author's total recipe count.
func (s *RecipeService) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// CreateRecipe persists a recipe together with its ingredient amounts and tag
// links in one transaction; a failure leaves no partial recipe behind.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	if err := validateRecipePayload(req); err != nil {
		return nil, err
	}

	tags, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		Tags:        tags,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for _, ia := range req.Ingredients {
			ri := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ia.ID,
				Amount:       ia.Amount,
			}
			if err := tx.Create(&ri).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields and its tag/ingredient sets.
// Only the author may update; the replacement is atomic.
func (s *RecipeService) UpdateRecipe(ctx context.Context, requesterID, id uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if recipe.AuthorID != requesterID {
		return nil, ErrForbidden
	}

	if err := validateRecipePayload(req); err != nil {
		return nil, err
	}
	tags, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.Name = req.Name
		recipe.Text = req.Text
		recipe.CookingTime = req.CookingTime
		if imageURL != "" {
			recipe.ImageURL = imageURL
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for _, ia := range req.Ingredients {
			ri := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ia.ID,
				Amount:       ia.Amount,
			}
			if err := tx.Create(&ri).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe removes the recipe and its join rows. Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, requesterID, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}
	if recipe.AuthorID != requesterID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingListEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// Favorite bookmarks a recipe for the user.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}
	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("recipe", "recipe is already in favorites")
		}
		return nil, err
	}
	return &recipe, nil
}

// Unfavorite removes the bookmark; a missing row maps to 404.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddToShoppingCart puts a recipe in the user's shopping cart.
func (s *RecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}
	entry := models.ShoppingListEntry{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("recipe", "recipe is already in the shopping cart")
		}
		return nil, err
	}
	return &recipe, nil
}

// RemoveFromShoppingCart drops a recipe from the cart; a missing row maps to 404.
func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingListEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FavoritedSet returns which of the given recipes the user has favorited.
func (s *RecipeService) FavoritedSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return set, nil
	}
	var favorites []models.Favorite
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&favorites).Error; err != nil {
		return nil, err
	}
	for _, f := range favorites {
		set[f.RecipeID] = true
	}
	return set, nil
}

// InShoppingCartSet returns which of the given recipes are in the user's cart.
func (s *RecipeService) InShoppingCartSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return set, nil
	}
	var entries []models.ShoppingListEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		set[e.RecipeID] = true
	}
	return set, nil
}

// validateRecipePayload enforces the write-shape rules: positive cooking
// time, a non-empty ingredient list without duplicates, positive amounts.
func validateRecipePayload(req *types.RecipeRequest) error {
	errs := FieldErrors{}
	if req.CookingTime < 1 {
		errs["cooking_time"] = append(errs["cooking_time"], "cooking time must be at least 1 minute")
	}
	if len(req.Ingredients) == 0 {
		errs["ingredients"] = append(errs["ingredients"], "a recipe needs at least one ingredient")
	}
	seen := make(map[uuid.UUID]bool, len(req.Ingredients))
	for i, ia := range req.Ingredients {
		if ia.Amount < 1 {
			errs["ingredients"] = append(errs["ingredients"],
				"amount for ingredient #"+strconv.Itoa(i+1)+" must be at least 1")
		}
		if seen[ia.ID] {
			errs["ingredients"] = append(errs["ingredients"],
				"duplicate ingredient in recipe")
		}
		seen[ia.ID] = true
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// resolveRefs loads the referenced tags and checks every ingredient ID
// exists, rejecting unknown references before the transaction starts.
func (s *RecipeService) resolveRefs(ctx context.Context, req *types.RecipeRequest) ([]models.Tag, error) {
	var tags []models.Tag
	if len(req.Tags) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
			return nil, err
		}
		if len(tags) != len(dedupe(req.Tags)) {
			return nil, fieldError("tags", "unknown tag id")
		}
	}

	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, ia := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, ia.ID)
	}
	var known int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id IN ?", ingredientIDs).Count(&known).Error; err != nil {
		return nil, err
	}
	if known != int64(len(ingredientIDs)) {
		return nil, fieldError("ingredients", "unknown ingredient id")
	}

	return tags, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
