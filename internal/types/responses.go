package types

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the profile view of a user, annotated for the requester.
type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientResponse is an ingredient expanded with its in-recipe amount.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full read shape of a recipe.
type RecipeResponse struct {
	ID                uuid.UUID                  `json:"id"`
	Tags              []TagResponse              `json:"tags"`
	Author            UserResponse               `json:"author"`
	Ingredients       []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited       bool                       `json:"is_favorited"`
	IsInShoppingCart  bool                       `json:"is_in_shopping_cart"`
	Name              string                     `json:"name"`
	Image             string                     `json:"image"`
	Text              string                     `json:"text"`
	CookingTime       int                        `json:"cooking_time"`
	PubDate           time.Time                  `json:"pub_date"`
}

// RecipeCard is the abbreviated recipe view returned by favorite/cart toggles
// and embedded in subscription listings.
type RecipeCard struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse is a followed author with a capped recipe list.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeCard `json:"recipes"`
	RecipesCount int64        `json:"recipes_count"`
}

// Page is the standard paginated envelope.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}
