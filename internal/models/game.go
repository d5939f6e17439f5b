package models

import (
	"time"

	"gorm.io/gorm"
)

// Game represents a catalog entry shared by all users.
type Game struct {
	gorm.Model
	Title       string     `gorm:"size:255;unique;not null"`
	Description string     `gorm:"not null"`
	Genres      []string   `gorm:"serializer:json;not null"`
	Platforms   []string   `gorm:"serializer:json;not null"`
	ReleaseDate *time.Time

	Image string `gorm:"size:512;not null;default:'default-game-image.jpg'"`

	// AverageRating is derived from the Ratings rows, recomputed on every
	// rating mutation. Never written directly by clients.
	AverageRating float64 `gorm:"not null;default:0"`

	Ratings []Rating `gorm:"foreignKey:GameID"`
}
