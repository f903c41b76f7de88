package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/types"
)

// TagHandler exposes the tag catalog: open reads, admin-only writes.
type TagHandler struct {
	catalogService service.ICatalogService
	authService    service.IAuthService
	userService    service.IUserService
}

func NewTagHandler(catalogService service.ICatalogService, authService service.IAuthService, userService service.IUserService) *TagHandler {
	return &TagHandler{
		catalogService: catalogService,
		authService:    authService,
		userService:    userService,
	}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("/", h.ListTags)
		tags.GET("/:id/", h.GetTag)
		tags.POST("/", middleware.AuthRequired(h.authService), middleware.AdminRequired(h.userService), h.CreateTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	results := make([]types.TagResponse, 0, len(tags))
	for i := range tags {
		results = append(results, tagView(&tags[i]))
	}
	c.JSON(http.StatusOK, results)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tag, err := h.catalogService.GetTag(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tagView(tag))
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req types.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tag, err := h.catalogService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tagView(tag))
}
