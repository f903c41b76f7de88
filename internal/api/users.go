package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/types"
)

// UserHandler exposes registration, profile reads and the follow graph.
type UserHandler struct {
	userService   service.IUserService
	authService   service.IAuthService
	recipeService service.IRecipeService
}

func NewUserHandler(userService service.IUserService, authService service.IAuthService, recipeService service.IRecipeService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		authService:   authService,
		recipeService: recipeService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/", h.Register)
		users.GET("/", middleware.AuthOptional(h.authService), h.ListUsers)
		users.GET("/me/", middleware.AuthRequired(h.authService), h.Me)
		users.POST("/set_password/", middleware.AuthRequired(h.authService), h.SetPassword)
		users.GET("/subscriptions/", middleware.AuthRequired(h.authService), h.ListSubscriptions)
		users.GET("/:id/", middleware.AuthOptional(h.authService), h.GetUser)
		users.POST("/:id/subscribe/", middleware.AuthRequired(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe/", middleware.AuthRequired(h.authService), h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	authorIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		authorIDs = append(authorIDs, u.ID)
	}
	subscribed, err := h.userService.SubscribedSet(c.Request.Context(), requesterID(c), authorIDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	results := make([]types.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, userView(&users[i], subscribed[users[i].ID]))
	}
	c.JSON(http.StatusOK, paginate(c, total, page, limit, results))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	isSubscribed := false
	if rid := requesterID(c); rid != uuid.Nil {
		isSubscribed, err = h.userService.IsSubscribed(c.Request.Context(), rid, user.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, userView(user, isSubscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), rid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user, false))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authService.SetPassword(c.Request.Context(), rid, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions lists the authors the requester follows, each annotated
// with a capped recipe list and a total recipe count.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	recipesLimit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "3"))
	if recipesLimit < 0 {
		recipesLimit = 0
	}

	authors, total, err := h.userService.ListSubscriptions(c.Request.Context(), rid, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	results := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		recipes, err := h.recipeService.ListRecipesByAuthor(c.Request.Context(), authors[i].ID, recipesLimit)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		count, err := h.recipeService.CountRecipesByAuthor(c.Request.Context(), authors[i].ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		results = append(results, subscriptionView(&authors[i], recipes, count))
	}
	c.JSON(http.StatusOK, paginate(c, total, page, limit, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Follow(c.Request.Context(), rid, authorID); err != nil {
		writeServiceError(c, err)
		return
	}

	author, err := h.userService.GetUser(c.Request.Context(), authorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	recipesLimit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "3"))
	recipes, err := h.recipeService.ListRecipesByAuthor(c.Request.Context(), authorID, recipesLimit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	count, err := h.recipeService.CountRecipesByAuthor(c.Request.Context(), authorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscriptionView(author, recipes, count))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	rid, ok := mustRequesterID(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userService.Unfollow(c.Request.Context(), rid, authorID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
