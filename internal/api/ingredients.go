package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/types"
)

// IngredientHandler exposes the ingredient catalog with the name-prefix
// filter; writes are admin-only and deletion is blocked while referenced.
type IngredientHandler struct {
	catalogService service.ICatalogService
	authService    service.IAuthService
	userService    service.IUserService
}

func NewIngredientHandler(catalogService service.ICatalogService, authService service.IAuthService, userService service.IUserService) *IngredientHandler {
	return &IngredientHandler{
		catalogService: catalogService,
		authService:    authService,
		userService:    userService,
	}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	admin := []gin.HandlerFunc{
		middleware.AuthRequired(h.authService),
		middleware.AdminRequired(h.userService),
	}
	{
		ingredients.GET("/", h.ListIngredients)
		ingredients.GET("/:id/", h.GetIngredient)
		ingredients.POST("/", append(admin, h.CreateIngredient)...)
		ingredients.DELETE("/:id/", append(admin, h.DeleteIngredient)...)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	results := make([]types.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		results = append(results, ingredientView(&ingredients[i]))
	}
	c.JSON(http.StatusOK, results)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredientView(ingredient))
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req types.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ingredient, err := h.catalogService.CreateIngredient(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredientView(ingredient))
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteIngredient(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
