package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	SetPassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	RevokeToken(ctx context.Context, token string) error
}

// IUserService defines the interface for profile and follow operations
type IUserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	IsStaff(ctx context.Context, id uuid.UUID) (bool, error)
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error)
	Follow(ctx context.Context, userID, authorID uuid.UUID) error
	Unfollow(ctx context.Context, userID, authorID uuid.UUID) error
	IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	SubscribedSet(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.User, int64, error)
}

// ICatalogService defines the interface for tag and ingredient reference data
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	CreateTag(ctx context.Context, req *types.TagRequest) (*models.Tag, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	ListRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error)
	CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, requesterID, id uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, requesterID, id uuid.UUID) error
	Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error
	FavoritedSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	InShoppingCartSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// IShoppingListService defines the interface for shopping-list export
type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
	RenderText(items []ShoppingListItem) []byte
	RenderPDF(items []ShoppingListItem) ([]byte, error)
}

// Compile-time interface checks
var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
)
