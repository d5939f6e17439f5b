package service

import (
	"context"
	"errors"
	"time"

	"grimoire/backend/internal/models"

	"gorm.io/gorm"
)

// LibraryService implements a user's personal game list: adding a catalog
// game exactly once, tracking a play status for the pairing, and removing it.
type LibraryService struct {
	db *gorm.DB
}

func NewLibraryService(db *gorm.DB) *LibraryService {
	return &LibraryService{db: db}
}

// AddGame puts a game on the user's list with status not_started. Returns
// the created UserGame with its Game populated for immediate display.
func (s *LibraryService) AddGame(ctx context.Context, userID, gameID uint) (*models.UserGame, error) {
	if userID == 0 || gameID == 0 {
		return nil, &ValidationError{Message: "Both userId and gameId are required"}
	}

	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Game not found"}
		}
		return nil, err
	}

	var existing models.UserGame
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Message: "Game already in your list"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	userGame := models.UserGame{
		UserID:      userID,
		GameID:      gameID,
		Status:      models.StatusNotStarted,
		StartDate:   now,
		LastUpdated: now,
	}

	if err := s.db.WithContext(ctx).Create(&userGame).Error; err != nil {
		// The composite primary key backstops the existence check above
		// against a concurrent add of the same pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "Game already in your list"}
		}
		return nil, err
	}

	userGame.Game = game
	return &userGame, nil
}

// UpdateStatus sets the play status for a game on the user's list. The game
// must already be on the list. Re-submitting the current status still bumps
// LastUpdated; it is a timestamp-touch, not a no-op.
func (s *LibraryService) UpdateStatus(ctx context.Context, userID, gameID uint, status models.GameStatus) (*models.UserGame, error) {
	if !status.Valid() {
		return nil, &ValidationError{Message: "Status must be one of not_started, ongoing, completed, aborted"}
	}

	var userGame models.UserGame
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&userGame).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Game not found in user's list"}
		}
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Model(&userGame).
		Updates(map[string]interface{}{"status": status, "last_updated": now}).Error
	if err != nil {
		return nil, err
	}

	userGame.Status = status
	userGame.LastUpdated = now
	return &userGame, nil
}

// List returns the user's games with populated Game data, most recently
// updated first.
func (s *LibraryService) List(ctx context.Context, userID uint) ([]models.UserGame, error) {
	if userID == 0 {
		return nil, &ValidationError{Message: "Invalid user ID format"}
	}

	var userGames []models.UserGame
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Game").
		Order("last_updated DESC").
		Find(&userGames).Error
	if err != nil {
		return nil, err
	}

	return userGames, nil
}

// Remove takes a game off the user's list. The game's ratings and average
// rating are untouched; rating history is independent of list membership.
func (s *LibraryService) Remove(ctx context.Context, userID, gameID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&models.UserGame{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Message: "Game not found in user's list"}
	}
	return nil
}
