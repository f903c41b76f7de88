package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/service"
)

// SetupAPI wires services and handlers onto the router.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, imageStore service.ImageStore) {
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	userService := service.NewUserService(db)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db)
	shoppingListService := service.NewShoppingListService(db)

	if imageStore == nil {
		imageStore = service.NewLocalImageStore(cfg.MediaDir)
	}

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, authService, recipeService)
	tagHandler := NewTagHandler(catalogService, authService, userService)
	ingredientHandler := NewIngredientHandler(catalogService, authService, userService)
	recipeHandler := NewRecipeHandler(recipeService, userService, authService, shoppingListService, imageStore)

	apiGroup := router.Group("/api")
	{
		authHandler.RegisterRoutes(apiGroup)
		userHandler.RegisterRoutes(apiGroup)
		tagHandler.RegisterRoutes(apiGroup)
		ingredientHandler.RegisterRoutes(apiGroup)
		recipeHandler.RegisterRoutes(apiGroup)
	}

	// Locally stored recipe images
	router.Static("/media", cfg.MediaDir)

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
