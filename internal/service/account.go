package service

import (
	"context"
	"errors"

	"grimoire/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService manages user registration, credential checks and profile
// changes. Passwords are stored only as bcrypt hashes.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates a new user. Usernames are unique.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Message: "Username and password are required"}
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Message: "Username already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "Username already exists"}
		}
		return nil, err
	}

	return &user, nil
}

// Login checks a username/password pair and returns the matching user.
// Unknown users and wrong passwords produce the same error.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Message: "Invalid credentials"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &AuthError{Message: "Invalid credentials"}
	}

	return &user, nil
}

// Get returns a user by ID.
func (s *AccountService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUsername changes a user's username, keeping uniqueness against all
// other users.
func (s *AccountService) UpdateUsername(ctx context.Context, userID uint, username string) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{Message: "Username is required"}
	}

	var existing models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND id <> ?", username, userID).
		First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Message: "Username is already taken"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update("username", username).Error; err != nil {
		return nil, err
	}

	user.Username = username
	return user, nil
}

// UpdatePassword verifies the current password and replaces it with a hash
// of the new one.
func (s *AccountService) UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	if newPassword == "" {
		return &ValidationError{Message: "New password is required"}
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return &ValidationError{Message: "Current password is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
}

// Delete removes a user account and cascades: the user's list entries and
// ratings are deleted, and the average rating of every game the user had
// rated is recomputed, all in one transaction.
func (s *AccountService) Delete(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "User not found"}
			}
			return err
		}

		var ratedGameIDs []uint
		if err := tx.Model(&models.Rating{}).
			Where("user_id = ?", userID).
			Pluck("game_id", &ratedGameIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserGame{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		for _, gameID := range ratedGameIDs {
			if err := recomputeAverageRating(tx, gameID); err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&user).Error
	})
}
