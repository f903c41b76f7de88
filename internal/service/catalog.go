package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/types"
)

var (
	colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// CatalogService manages the read-mostly tag and ingredient reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

// GetTag retrieves a tag by ID
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates a tag after validating the color and slug formats.
func (s *CatalogService) CreateTag(ctx context.Context, req *types.TagRequest) (*models.Tag, error) {
	if !colorPattern.MatchString(req.Color) {
		return nil, fieldError("color", "color must be a #RGB or #RRGGBB hex value")
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, fieldError("slug", "slug may only contain letters, digits, hyphens and underscores")
	}
	tag := models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("name", "a tag with that name, color or slug already exists")
		}
		return nil, err
	}
	return &tag, nil
}

// ListIngredients returns ingredients ordered by name, optionally narrowed to
// a case-insensitive name prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}
	var ingredients []models.Ingredient
	err := query.Find(&ingredients).Error
	return ingredients, err
}

// GetIngredient retrieves an ingredient by ID
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// CreateIngredient creates an ingredient; the (name, unit) pair is unique.
func (s *CatalogService) CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, error) {
	ingredient := models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("name", "an ingredient with that name and unit already exists")
		}
		return nil, err
	}
	return &ingredient, nil
}

// DeleteIngredient removes an ingredient unless a recipe still references it.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetIngredient(ctx, id); err != nil {
		return err
	}
	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Where("ingredient_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return fieldError("ingredient", "ingredient is referenced by existing recipes")
	}
	return s.db.WithContext(ctx).Delete(&models.Ingredient{}, "id = ?", id).Error
}

// escapeLike escapes LIKE metacharacters in user-supplied prefixes.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
