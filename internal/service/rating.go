package service

import (
	"context"
	"errors"
	"time"

	"grimoire/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingService submits ratings and keeps each game's average rating
// consistent with its rating rows.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Rate records a user's 1-5 rating for a game. Re-rating replaces the user's
// prior value and feedback (upsert on the (game_id, user_id) key) rather than
// appending a second entry. The insert-or-update and the average recompute
// run in one transaction, so two concurrent raters cannot clobber each
// other's entries.
func (s *RatingService) Rate(ctx context.Context, userID, gameID uint, value int, feedback string) (*models.Game, error) {
	if value < 1 || value > 5 {
		return nil, &ValidationError{Message: "Rating must be an integer between 1 and 5"}
	}

	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "Game not found"}
			}
			return err
		}

		now := time.Now()
		rating := models.Rating{
			GameID:    gameID,
			UserID:    userID,
			Value:     value,
			Feedback:  feedback,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "feedback", "updated_at"}),
		}).Create(&rating).Error; err != nil {
			return err
		}

		if err := recomputeAverageRating(tx, gameID); err != nil {
			return err
		}

		return tx.Preload("Ratings").First(&game, gameID).Error
	})
	if err != nil {
		return nil, err
	}

	return &game, nil
}

// recomputeAverageRating sets a game's average_rating to the mean of its
// rating rows rounded to one decimal place, or 0 when none exist. A single
// statement with the aggregate as a subquery, so the stored value can never
// drift from a list the process read earlier.
func recomputeAverageRating(tx *gorm.DB, gameID uint) error {
	return tx.Exec(
		`UPDATE games
		 SET average_rating = COALESCE((SELECT ROUND(AVG(value), 1) FROM ratings WHERE game_id = ?), 0)
		 WHERE id = ?`,
		gameID, gameID,
	).Error
}
