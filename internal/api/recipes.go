package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/types"
)

// RecipeHandler exposes recipe authoring and retrieval, the favorite and
// shopping-cart toggles, and the shopping-list export.
type RecipeHandler struct {
	recipeService       service.IRecipeService
	userService         service.IUserService
	authService         service.IAuthService
	shoppingListService service.IShoppingListService
	imageStore          service.ImageStore
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	userService service.IUserService,
	authService service.IAuthService,
	shoppingListService service.IShoppingListService,
	imageStore service.ImageStore,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		userService:         userService,
		authService:         authService,
		shoppingListService: shoppingListService,
		imageStore:          imageStore,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	auth := middleware.AuthRequired(h.authService)
	{
		recipes.GET("/", middleware.AuthOptional(h.authService), h.ListRecipes)
		recipes.GET("/download_shopping_cart/", auth, h.DownloadShoppingCart)
		recipes.GET("/:id/", middleware.AuthOptional(h.authService), h.GetRecipe)
		recipes.POST("/", auth, h.CreateRecipe)
		recipes.PATCH("/:id/", auth, h.UpdateRecipe)
		recipes.DELETE("/:id/", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite/", auth, h.Favorite)
		recipes.DELETE("/:id/favorite/", auth, h.Unfavorite)
		recipes.POST("/:id/shopping_cart/", auth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart/", auth, h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := pageParams(c)
	rid := requesterID(c)

	filter := service.RecipeFilter{Page: page, Limit: limit}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"author": []string{"invalid author id"}})
			return
		}
		filter.AuthorID = &authorID
	}
	if slugs := c.QueryArray("tags"); len(slugs) > 0 {
		filter.TagSlugs = slugs
	}
	// The requester-relative filters only apply to authenticated requests.
	if rid != uuid.Nil {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = &rid
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InShoppingCartOf = &rid
		}
	}

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}
	favorited, err := h.recipeService.FavoritedSet(c.Request.Context(), rid, recipeIDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	inCart, err := h.recipeService.InShoppingCartSet(c.Request.Context(), rid, recipeIDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	subscribed, err := h.userService.SubscribedSet(c.Request.Context(), rid, authorIDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	results := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		results = append(results, recipeView(r, subscribed[r.AuthorID], favorited[r.ID], inCart[r.ID]))
	}
	c.JSON(http.StatusOK, paginate(c, total, page, limit, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{"image is required"}})
		return
	}

	imageURL, err := h.storeImage(c, req.Image)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), rid, &req, imageURL)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Image is optional on update; an empty value keeps the current one.
	imageURL := ""
	if req.Image != "" {
		var err error
		imageURL, err = h.storeImage(c, req.Image)
		if err != nil {
			writeServiceError(c, err)
			return
		}
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), rid, id, &req, imageURL)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), rid, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.Favorite(c.Request.Context(), rid, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipeCardView(recipe))
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.recipeService.Unfavorite(c.Request.Context(), rid, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.AddToShoppingCart(c.Request.Context(), rid, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipeCardView(recipe))
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.recipeService.RemoveFromShoppingCart(c.Request.Context(), rid, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart aggregates the cart and streams it as a text or PDF
// attachment, selected by the pdf query flag.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	items, err := h.shoppingListService.Aggregate(c.Request.Context(), rid)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if c.Query("pdf") == "1" {
		data, err := h.shoppingListService.RenderPDF(items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render shopping list"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", h.shoppingListService.RenderText(items))
}

func (h *RecipeHandler) storeImage(c *gin.Context, payload string) (string, error) {
	data, ext, err := service.DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}
	return h.imageStore.Save(c.Request.Context(), data, ext)
}

// respondRecipe assembles the read shape with requester-specific flags.
func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	rid := requesterID(c)

	favorited := false
	inCart := false
	subscribed := false
	if rid != uuid.Nil {
		var err error
		favSet, err := h.recipeService.FavoritedSet(c.Request.Context(), rid, []uuid.UUID{recipe.ID})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		favorited = favSet[recipe.ID]
		cartSet, err := h.recipeService.InShoppingCartSet(c.Request.Context(), rid, []uuid.UUID{recipe.ID})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		inCart = cartSet[recipe.ID]
		subscribed, err = h.userService.IsSubscribed(c.Request.Context(), rid, recipe.AuthorID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
	}

	c.JSON(status, recipeView(recipe, subscribed, favorited, inCart))
}
