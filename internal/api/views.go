package api

import (
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/types"
)

// View-model assembly: each function takes the entity plus the
// requester-derived flags and returns a plain response structure. The
// requester identity is resolved by the handlers, never read from globals.

func userView(u *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func tagView(t *models.Tag) types.TagResponse {
	return types.TagResponse{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func ingredientView(i *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func recipeCardView(r *models.Recipe) types.RecipeCard {
	return types.RecipeCard{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// recipeView assembles the full read shape. The recipe must have Author,
// Tags and Ingredients.Ingredient preloaded.
func recipeView(r *models.Recipe, authorSubscribed, favorited, inCart bool) types.RecipeResponse {
	tags := make([]types.TagResponse, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, tagView(&r.Tags[i]))
	}

	ingredients := make([]types.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, types.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	return types.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           userView(&r.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}

func subscriptionView(author *models.User, recipes []models.Recipe, total int64) types.SubscriptionResponse {
	cards := make([]types.RecipeCard, 0, len(recipes))
	for i := range recipes {
		cards = append(cards, recipeCardView(&recipes[i]))
	}
	return types.SubscriptionResponse{
		UserResponse: userView(author, true),
		Recipes:      cards,
		RecipesCount: total,
	}
}
