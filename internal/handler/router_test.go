package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"grimoire/backend/internal/auth"
	"grimoire/backend/internal/database"
	"grimoire/backend/internal/handler"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	mini := miniredis.RunT(t)
	denylist := auth.NewDenylistWithClient(redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	t.Cleanup(func() { _ = denylist.Close() })

	return handler.NewRouter(handler.RouterOptions{
		DB:           db,
		Denylist:     denylist,
		JWTSecret:    testSecret,
		ClientOrigin: "http://localhost:5173",
	})
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// registerAndLogin creates a user and returns its ID and a fresh token.
func registerAndLogin(t *testing.T, router *gin.Engine, username string) (uint, string) {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"username": username, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"username": username, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	userID, _ := body["userId"].(float64)
	require.NotZero(t, userID)

	return uint(userID), token
}

func createGameViaAPI(t *testing.T, router *gin.Engine, token, title string) uint {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/games/add", token, gin.H{
		"title":       title,
		"description": "A test game",
		"genre":       []string{"RPG"},
		"platform":    []string{"PC"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	game := decode(t, w)["game"].(map[string]any)
	return uint(game["id"].(float64))
}

func TestTrackAndRateFlow(t *testing.T) {
	router := setupRouter(t)

	userID, token := registerAndLogin(t, router, "alice")
	gameID := createGameViaAPI(t, router, token, "Hollow Knight")

	// Add to list
	w := doJSON(router, http.MethodPost, "/api/user-games/add", token, gin.H{
		"userId": userID, "gameId": gameID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode(t, w)
	assert.Equal(t, "not_started", entry["status"])
	assert.Equal(t, "Hollow Knight", entry["game"].(map[string]any)["title"])

	// Adding the same pair again is a distinguishable conflict
	w = doJSON(router, http.MethodPost, "/api/user-games/add", token, gin.H{
		"userId": userID, "gameId": gameID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Game already in your list", decode(t, w)["message"])

	// Rate 4 -> average 4.0
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/games/%d/rate", gameID), token, gin.H{
		"rating": 4, "feedback": "solid",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	game := decode(t, w)["game"].(map[string]any)
	assert.InDelta(t, 4.0, game["averageRating"].(float64), 0.001)

	// Re-rate 2 -> average 2.0, still one rating entry
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/games/%d/rate", gameID), token, gin.H{
		"rating": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	game = decode(t, w)["game"].(map[string]any)
	assert.InDelta(t, 2.0, game["averageRating"].(float64), 0.001)
	assert.Len(t, game["ratings"].([]any), 1)

	// Set status completed
	w = doJSON(router, http.MethodPut, "/api/user-games/status", token, gin.H{
		"userId": userID, "gameId": gameID, "status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decode(t, w)["status"])

	// List shows the entry with populated game data
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/user-games/list/%d", userID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "completed", list[0]["status"])

	// Remove from list
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/user-games/%d/%d", userID, gameID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Second removal fails and the pair stays absent
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/user-games/%d/%d", userID, gameID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The game itself survives with its rating history
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/games/%d", gameID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	game = decode(t, w)
	assert.InDelta(t, 2.0, game["averageRating"].(float64), 0.001)
}

func TestTwoUsersRatingAverages(t *testing.T) {
	router := setupRouter(t)

	_, aliceToken := registerAndLogin(t, router, "alice")
	_, bobToken := registerAndLogin(t, router, "bob")
	gameID := createGameViaAPI(t, router, aliceToken, "Celeste")

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/games/%d/rate", gameID), aliceToken, gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/games/%d/rate", gameID), bobToken, gin.H{"rating": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	game := decode(t, w)["game"].(map[string]any)
	assert.InDelta(t, 4.0, game["averageRating"].(float64), 0.001)
	assert.Len(t, game["ratings"].([]any), 2)
}

func TestValidationAndAuthBoundaries(t *testing.T) {
	router := setupRouter(t)

	aliceID, aliceToken := registerAndLogin(t, router, "alice")
	bobID, _ := registerAndLogin(t, router, "bob")
	gameID := createGameViaAPI(t, router, aliceToken, "Hades")

	t.Run("duplicate registration is rejected with a clear message", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/register", "", gin.H{
			"username": "alice", "password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Username already exists", decode(t, w)["message"])
	})

	t.Run("unauthenticated core operations are rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/user-games/add", "", gin.H{
			"userId": aliceID, "gameId": gameID,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("acting on another user's list is forbidden", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/user-games/add", aliceToken, gin.H{
			"userId": bobID, "gameId": gameID,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("out-of-range and non-integer ratings are rejected", func(t *testing.T) {
		for _, rating := range []any{0, 6, 4.5, "four"} {
			w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/games/%d/rate", gameID), aliceToken, gin.H{
				"rating": rating,
			})
			assert.Equal(t, http.StatusBadRequest, w.Code, "rating %v", rating)
		}
	})

	t.Run("unknown status is rejected without mutating", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/user-games/add", aliceToken, gin.H{
			"userId": aliceID, "gameId": gameID,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(router, http.MethodPut, "/api/user-games/status", aliceToken, gin.H{
			"userId": aliceID, "gameId": gameID, "status": "paused",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/user-games/list/%d", aliceID), aliceToken, nil)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "not_started", list[0]["status"])
	})

	t.Run("malformed user ID in list path is a bad request", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/user-games/list/abc", aliceToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rating an unknown game is not found", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/games/9999/rate", aliceToken, gin.H{"rating": 3})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	router := setupRouter(t)

	userID, token := registerAndLogin(t, router, "alice")

	w := doJSON(router, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
