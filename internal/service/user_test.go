package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/testhelpers"
)

func TestFollow(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userSvc := service.NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")

	t.Run("follows an author", func(t *testing.T) {
		require.NoError(t, userSvc.Follow(ctx, alice.ID, bob.ID))

		subscribed, err := userSvc.IsSubscribed(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, subscribed)
	})

	t.Run("following twice is a validation error", func(t *testing.T) {
		err := userSvc.Follow(ctx, alice.ID, bob.ID)
		var fieldErrs service.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "author")
	})

	t.Run("cannot follow yourself", func(t *testing.T) {
		err := userSvc.Follow(ctx, alice.ID, alice.ID)
		var fieldErrs service.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "author")
	})

	t.Run("unknown author", func(t *testing.T) {
		err := userSvc.Follow(ctx, alice.ID, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("follow is one-directional", func(t *testing.T) {
		subscribed, err := userSvc.IsSubscribed(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, subscribed)
	})
}

func TestUnfollow(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userSvc := service.NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")

	require.NoError(t, userSvc.Follow(ctx, alice.ID, bob.ID))

	t.Run("removes the subscription", func(t *testing.T) {
		require.NoError(t, userSvc.Unfollow(ctx, alice.ID, bob.ID))

		subscribed, err := userSvc.IsSubscribed(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, subscribed)
	})

	t.Run("unfollowing an author you do not follow", func(t *testing.T) {
		err := userSvc.Unfollow(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestListSubscriptions(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userSvc := service.NewUserService(db)
	ctx := context.Background()

	reader := testhelpers.CreateTestUser(t, db, "reader")
	zoe := testhelpers.CreateTestUser(t, db, "zoe")
	adam := testhelpers.CreateTestUser(t, db, "adam")
	testhelpers.CreateTestUser(t, db, "unfollowed")

	require.NoError(t, userSvc.Follow(ctx, reader.ID, zoe.ID))
	require.NoError(t, userSvc.Follow(ctx, reader.ID, adam.ID))

	authors, total, err := userSvc.ListSubscriptions(ctx, reader.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, authors, 2)
	assert.Equal(t, "adam", authors[0].Username)
	assert.Equal(t, "zoe", authors[1].Username)
}

func TestSubscribedSet(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userSvc := service.NewUserService(db)
	ctx := context.Background()

	reader := testhelpers.CreateTestUser(t, db, "reader")
	followed := testhelpers.CreateTestUser(t, db, "followed")
	other := testhelpers.CreateTestUser(t, db, "other")

	require.NoError(t, userSvc.Follow(ctx, reader.ID, followed.ID))

	set, err := userSvc.SubscribedSet(ctx, reader.ID, []uuid.UUID{followed.ID, other.ID})
	require.NoError(t, err)
	assert.True(t, set[followed.ID])
	assert.False(t, set[other.ID])

	// Anonymous requesters follow nobody.
	set, err = userSvc.SubscribedSet(ctx, uuid.Nil, []uuid.UUID{followed.ID})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userSvc := service.NewUserService(db)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		testhelpers.CreateTestUser(t, db, name)
	}

	users, total, err := userSvc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	users, _, err = userSvc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
}
