package service

import (
	"context"
	"errors"
	"time"

	"grimoire/backend/internal/models"

	"gorm.io/gorm"
)

// CatalogService manages the shared game catalog. Games are created by any
// authenticated user and never deleted; they are mutated only when rated.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// NewGame holds the fields for a catalog entry.
type NewGame struct {
	Title       string
	Description string
	Genres      []string
	Platforms   []string
	ReleaseDate *time.Time
	Image       string
}

// Create adds a new game to the catalog. Titles are unique.
func (s *CatalogService) Create(ctx context.Context, input NewGame) (*models.Game, error) {
	if input.Title == "" || input.Description == "" {
		return nil, &ValidationError{Message: "Title and description are required"}
	}
	if len(input.Genres) == 0 || len(input.Platforms) == 0 {
		return nil, &ValidationError{Message: "At least one genre and one platform are required"}
	}

	var existing models.Game
	err := s.db.WithContext(ctx).Where("title = ?", input.Title).First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Message: "Game already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	game := models.Game{
		Title:       input.Title,
		Description: input.Description,
		Genres:      input.Genres,
		Platforms:   input.Platforms,
		ReleaseDate: input.ReleaseDate,
	}
	if input.Image != "" {
		game.Image = input.Image
	}

	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "Game already exists"}
		}
		return nil, err
	}

	return &game, nil
}

// Get returns a single game with its ratings.
func (s *CatalogService) Get(ctx context.Context, gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Preload("Ratings").First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Game not found"}
		}
		return nil, err
	}
	return &game, nil
}

// List returns a page of the catalog, optionally filtered by a title search,
// together with the total number of matches.
func (s *CatalogService) List(ctx context.Context, query string, page, limit int) ([]models.Game, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	dbQuery := s.db.WithContext(ctx).Model(&models.Game{})
	if query != "" {
		dbQuery = dbQuery.Where("title LIKE ?", "%"+query+"%")
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	var games []models.Game
	offset := (page - 1) * limit
	if err := dbQuery.Offset(offset).Limit(limit).Find(&games).Error; err != nil {
		return nil, 0, err
	}

	return games, totalItems, nil
}
