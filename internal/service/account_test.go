package service_test

import (
	"testing"

	"grimoire/backend/internal/models"
	"grimoire/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	accounts := service.NewAccountService(db)

	t.Run("registers a user with a hashed password", func(t *testing.T) {
		user, err := accounts.Register(ctx(), "alice", "supersecret")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "supersecret", user.PasswordHash)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := accounts.Register(ctx(), "alice", "othersecret")
		var conflictErr *service.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, "Username already exists", conflictErr.Message)
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		user, err := accounts.Login(ctx(), "alice", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password and unknown user fail the same way", func(t *testing.T) {
		var authErr *service.AuthError

		_, err := accounts.Login(ctx(), "alice", "wrong")
		require.ErrorAs(t, err, &authErr)
		wrongPassword := authErr.Message

		_, err = accounts.Login(ctx(), "nobody", "supersecret")
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, wrongPassword, authErr.Message)
	})

	t.Run("empty credentials are rejected", func(t *testing.T) {
		_, err := accounts.Register(ctx(), "", "supersecret")
		var validationErr *service.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestAccountProfileUpdates(t *testing.T) {
	db := setupTestDB(t)
	accounts := service.NewAccountService(db)

	alice, err := accounts.Register(ctx(), "alice", "supersecret")
	require.NoError(t, err)
	_, err = accounts.Register(ctx(), "bob", "supersecret")
	require.NoError(t, err)

	t.Run("username change keeps uniqueness", func(t *testing.T) {
		_, err := accounts.UpdateUsername(ctx(), alice.ID, "bob")
		var conflictErr *service.ConflictError
		require.ErrorAs(t, err, &conflictErr)

		user, err := accounts.UpdateUsername(ctx(), alice.ID, "alice2")
		require.NoError(t, err)
		assert.Equal(t, "alice2", user.Username)
	})

	t.Run("keeping one's own username is allowed", func(t *testing.T) {
		user, err := accounts.UpdateUsername(ctx(), alice.ID, "alice2")
		require.NoError(t, err)
		assert.Equal(t, "alice2", user.Username)
	})

	t.Run("password change verifies the current password", func(t *testing.T) {
		err := accounts.UpdatePassword(ctx(), alice.ID, "wrong", "newsecret123")
		var validationErr *service.ValidationError
		require.ErrorAs(t, err, &validationErr)

		require.NoError(t, accounts.UpdatePassword(ctx(), alice.ID, "supersecret", "newsecret123"))

		_, err = accounts.Login(ctx(), "alice2", "newsecret123")
		assert.NoError(t, err)
		_, err = accounts.Login(ctx(), "alice2", "supersecret")
		assert.Error(t, err)
	})
}

func TestAccountDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	accounts := service.NewAccountService(db)
	library := service.NewLibraryService(db)
	ratings := service.NewRatingService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	game := createTestGame(t, db, "Hollow Knight")

	_, err := library.AddGame(ctx(), alice.ID, game.ID)
	require.NoError(t, err)
	_, err = ratings.Rate(ctx(), alice.ID, game.ID, 5, "")
	require.NoError(t, err)
	_, err = ratings.Rate(ctx(), bob.ID, game.ID, 3, "")
	require.NoError(t, err)

	require.NoError(t, accounts.Delete(ctx(), alice.ID))

	t.Run("user is gone", func(t *testing.T) {
		_, err := accounts.Get(ctx(), alice.ID)
		var notFoundErr *service.NotFoundError
		assert.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("list entries and ratings are gone, no orphans", func(t *testing.T) {
		var userGames, aliceRatings int64
		db.Model(&models.UserGame{}).Where("user_id = ?", alice.ID).Count(&userGames)
		db.Model(&models.Rating{}).Where("user_id = ?", alice.ID).Count(&aliceRatings)
		assert.Zero(t, userGames)
		assert.Zero(t, aliceRatings)
	})

	t.Run("affected games have their average recomputed", func(t *testing.T) {
		var fresh models.Game
		require.NoError(t, db.Preload("Ratings").First(&fresh, game.ID).Error)
		require.Len(t, fresh.Ratings, 1)
		assert.InDelta(t, 3.0, fresh.AverageRating, 0.001)
	})

	t.Run("deleting an unknown user is not found", func(t *testing.T) {
		err := accounts.Delete(ctx(), 9999)
		var notFoundErr *service.NotFoundError
		assert.ErrorAs(t, err, &notFoundErr)
	})
}
