package handler

import (
	"net/http"
	"time"

	"grimoire/backend/internal/auth"
	"grimoire/backend/internal/models"
	"grimoire/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GameHandler exposes the shared game catalog and rating submission.
type GameHandler struct {
	Catalog *service.CatalogService
	Ratings *service.RatingService
}

func NewGameHandler(catalog *service.CatalogService, ratings *service.RatingService) *GameHandler {
	return &GameHandler{Catalog: catalog, Ratings: ratings}
}

// region --- DTOs ---

// GameInput defines the structure for adding a catalog game.
type GameInput struct {
	Title       string     `json:"title" binding:"required" example:"Hollow Knight"`
	Description string     `json:"description" binding:"required"`
	Genres      []string   `json:"genre" binding:"required"`
	Platforms   []string   `json:"platform" binding:"required"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Image       string     `json:"image"`
}

// RateInput defines the structure for submitting a rating.
type RateInput struct {
	Rating   int    `json:"rating" binding:"required" example:"4"`
	Feedback string `json:"feedback"`
}

// RatingResponse defines the structure for one user's rating of a game.
type RatingResponse struct {
	UserID    uint      `json:"userId"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GameResponse defines the structure for a catalog game.
type GameResponse struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Genres        []string         `json:"genre"`
	Platforms     []string         `json:"platform"`
	ReleaseDate   *time.Time       `json:"releaseDate,omitempty"`
	Image         string           `json:"image"`
	AverageRating float64          `json:"averageRating"`
	Ratings       []RatingResponse `json:"ratings,omitempty"`
}

func newGameResponse(game models.Game) GameResponse {
	var ratings []RatingResponse
	for _, r := range game.Ratings {
		ratings = append(ratings, RatingResponse{
			UserID:    r.UserID,
			Rating:    r.Value,
			Feedback:  r.Feedback,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	return GameResponse{
		ID:            game.ID,
		Title:         game.Title,
		Description:   game.Description,
		Genres:        game.Genres,
		Platforms:     game.Platforms,
		ReleaseDate:   game.ReleaseDate,
		Image:         game.Image,
		AverageRating: game.AverageRating,
		Ratings:       ratings,
	}
}

// PaginatedGameResponse defines the structure for a paginated list of games.
type PaginatedGameResponse struct {
	Data []GameResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// endregion

// CreateGame godoc
// @Summary      Add a game to the catalog
// @Description  Creates a new catalog game. Titles are unique across the catalog.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse "Validation failure or game already exists"
// @Failure      401  {object}  ErrorResponse
// @Router       /games/add [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	game, err := h.Catalog.Create(c.Request.Context(), service.NewGame{
		Title:       input.Title,
		Description: input.Description,
		Genres:      input.Genres,
		Platforms:   input.Platforms,
		ReleaseDate: input.ReleaseDate,
		Image:       input.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Game added successfully!",
		"game":    newGameResponse(*game),
	})
}

// GetGames godoc
// @Summary      List the catalog
// @Description  Retrieves a paginated list of games, optionally filtered by a title search.
// @Tags         games
// @Produce      json
// @Param        q     query     string  false  "Search query for game title"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200 {object} PaginatedGameResponse
// @Failure      500 {object} ErrorResponse
// @Router       /games [get]
func (h *GameHandler) GetGames(c *gin.Context) {
	page, limit := pageParams(c)

	games, totalItems, err := h.Catalog.List(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetGameByID godoc
// @Summary      Get a single game
// @Description  Retrieves one catalog game with its ratings.
// @Tags         games
// @Produce      json
// @Param        gameId path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{gameId} [get]
func (h *GameHandler) GetGameByID(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.Catalog.Get(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// RateGame godoc
// @Summary      Rate a game
// @Description  Submits a 1-5 rating with optional feedback. Re-rating replaces the caller's prior rating; the game's average rating is recomputed in the same write.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gameId path int       true "Game ID"
// @Param        input  body RateInput true "Rating"
// @Success      200 {object} GameResponse
// @Failure      400 {object} ErrorResponse "Invalid rating"
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{gameId}/rate [post]
func (h *GameHandler) RateGame(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var input RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be an integer between 1 and 5"})
		return
	}

	game, err := h.Ratings.Rate(c.Request.Context(), auth.UserID(c), gameID, input.Rating, input.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating added successfully",
		"game":    newGameResponse(*game),
	})
}
