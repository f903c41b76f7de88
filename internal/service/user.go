package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
)

// UserService handles profile reads and the follow graph.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsStaff reports whether the user has admin rights over the catalogs.
func (s *UserService) IsStaff(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsStaff, nil
}

// ListUsers returns one page of profiles ordered by username, plus the total count.
func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// Follow creates a subscription edge from user to author. Following yourself
// or following the same author twice is a validation error; the unique
// (user, author) index backstops concurrent duplicates.
func (s *UserService) Follow(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return fieldError("author", "you cannot follow yourself")
	}
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fieldError("author", "you are already following this author")
		}
		return err
	}
	return nil
}

// Unfollow removes the subscription edge. A missing edge is reported as
// gorm.ErrRecordNotFound so the handler can answer 404.
func (s *UserService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsSubscribed reports whether user follows author.
func (s *UserService) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// SubscribedSet returns, for a batch of author IDs, which ones the user follows.
// Used to annotate list responses without a query per row.
func (s *UserService) SubscribedSet(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(authorIDs))
	if userID == uuid.Nil || len(authorIDs) == 0 {
		return set, nil
	}
	var follows []models.Follow
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Find(&follows).Error; err != nil {
		return nil, err
	}
	for _, f := range follows {
		set[f.AuthorID] = true
	}
	return set, nil
}

// ListSubscriptions returns one page of authors the user follows, ordered by
// username, plus the total count.
func (s *UserService) ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := base.
		Order("users.username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&authors).Error
	return authors, total, err
}
