package models

import "time"

// GameStatus defines the play status a user tracks for a game on their list.
type GameStatus string

const (
	StatusNotStarted GameStatus = "not_started"
	StatusOngoing    GameStatus = "ongoing"
	StatusCompleted  GameStatus = "completed"
	StatusAborted    GameStatus = "aborted"
)

// Valid reports whether s is one of the four known statuses. Any status may
// transition to any other; there is no workflow ordering.
func (s GameStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusOngoing, StatusCompleted, StatusAborted:
		return true
	}
	return false
}

// UserGame represents one user's tracked relationship to one catalog game.
// The primary key is a composite of (UserID, GameID) to ensure a user can
// have a game on their list at most once.
type UserGame struct {
	UserID      uint       `gorm:"primaryKey;autoIncrement:false"`
	GameID      uint       `gorm:"primaryKey;autoIncrement:false"`
	Status      GameStatus `gorm:"type:varchar(20);not null;default:'not_started'"`
	StartDate   time.Time
	LastUpdated time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Game Game `gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
