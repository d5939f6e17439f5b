package handler

import (
	"net/http"
	"time"

	"grimoire/backend/internal/auth"
	"grimoire/backend/internal/models"
	"grimoire/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserGameHandler exposes a user's personal game list.
type UserGameHandler struct {
	Library *service.LibraryService
}

func NewUserGameHandler(library *service.LibraryService) *UserGameHandler {
	return &UserGameHandler{Library: library}
}

// region --- DTOs ---

// AddUserGameInput defines the structure for adding a game to a list.
type AddUserGameInput struct {
	UserID uint `json:"userId" binding:"required" example:"1"`
	GameID uint `json:"gameId" binding:"required" example:"2"`
}

// UpdateStatusInput defines the structure for a status change.
type UpdateStatusInput struct {
	UserID uint              `json:"userId" binding:"required" example:"1"`
	GameID uint              `json:"gameId" binding:"required" example:"2"`
	Status models.GameStatus `json:"status" binding:"required" example:"ongoing"`
}

// UserGameResponse defines the structure for one list entry, with the game
// populated for immediate display.
type UserGameResponse struct {
	UserID      uint              `json:"userId"`
	GameID      uint              `json:"gameId"`
	Status      models.GameStatus `json:"status"`
	StartDate   time.Time         `json:"startDate"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Game        *GameResponse     `json:"game,omitempty"`
}

func newUserGameResponse(userGame models.UserGame) UserGameResponse {
	response := UserGameResponse{
		UserID:      userGame.UserID,
		GameID:      userGame.GameID,
		Status:      userGame.Status,
		StartDate:   userGame.StartDate,
		LastUpdated: userGame.LastUpdated,
	}

	if userGame.Game.ID != 0 {
		game := newGameResponse(userGame.Game)
		response.Game = &game
	}

	return response
}

// endregion

// AddGame godoc
// @Summary      Add a game to the caller's list
// @Description  Creates the user-game pairing with status not_started. A game can be on a user's list at most once.
// @Tags         user-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AddUserGameInput true "User and game IDs"
// @Success      201  {object}  UserGameResponse
// @Failure      400  {object}  ErrorResponse "Validation failure or game already in list"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /user-games/add [post]
func (h *UserGameHandler) AddGame(c *gin.Context) {
	var input AddUserGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Both userId and gameId are required"})
		return
	}
	if !requireOwnList(c, input.UserID) {
		return
	}

	userGame, err := h.Library.AddGame(c.Request.Context(), input.UserID, input.GameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserGameResponse(*userGame))
}

// UpdateStatus godoc
// @Summary      Update play status
// @Description  Sets the status for a game on the caller's list. Any status may move to any other.
// @Tags         user-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateStatusInput true "New status"
// @Success      200  {object}  UserGameResponse
// @Failure      400  {object}  ErrorResponse "Unknown status value"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not on the list"
// @Router       /user-games/status [put]
func (h *UserGameHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userId, gameId and status are required"})
		return
	}
	if !requireOwnList(c, input.UserID) {
		return
	}

	userGame, err := h.Library.UpdateStatus(c.Request.Context(), input.UserID, input.GameID, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserGameResponse(*userGame))
}

// GetList godoc
// @Summary      Get a user's game list
// @Description  Retrieves a user's list entries with populated game data, most recently updated first.
// @Tags         user-games
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Success      200  {array}   UserGameResponse
// @Failure      400  {object}  ErrorResponse "Invalid user ID"
// @Failure      401  {object}  ErrorResponse
// @Router       /user-games/list/{userId} [get]
func (h *UserGameHandler) GetList(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	userGames, err := h.Library.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserGameResponse, 0, len(userGames))
	for _, userGame := range userGames {
		response = append(response, newUserGameResponse(userGame))
	}

	c.JSON(http.StatusOK, response)
}

// RemoveGame godoc
// @Summary      Remove a game from the caller's list
// @Description  Deletes the user-game pairing. The game's ratings and average rating are untouched.
// @Tags         user-games
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Param        gameId path int true "Game ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not on the list"
// @Router       /user-games/{userId}/{gameId} [delete]
func (h *UserGameHandler) RemoveGame(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}
	if !requireOwnList(c, userID) {
		return
	}

	if err := h.Library.Remove(c.Request.Context(), userID, gameID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game removed from list"})
}

// requireOwnList rejects mutations that target another user's list. Reading
// a list stays open to any authenticated user (profiles are public).
func requireOwnList(c *gin.Context, targetUserID uint) bool {
	if auth.UserID(c) != targetUserID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only manage your own list"})
		return false
	}
	return true
}
