package models

import "time"

// Rating is a single user's 1-5 score for a single game.
// The primary key is a composite of (GameID, UserID), so a user can hold at
// most one rating per game; re-rating is an upsert on this key.
type Rating struct {
	GameID    uint   `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	Value     int    `gorm:"not null"`
	Feedback  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Game Game `gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
