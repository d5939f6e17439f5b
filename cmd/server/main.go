package main

import (
	"fmt"
	"log"

	"grimoire/backend/internal/auth"
	"grimoire/backend/internal/config"
	"grimoire/backend/internal/database"
	"grimoire/backend/internal/handler"

	// Swagger imports
	_ "grimoire/backend/docs" // This is important for swag to find the generated docs
)

// @title           Gamer's Grimoire API
// @version         1.0
// @description     This is the API for the Gamer's Grimoire game-tracking service.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established.")

	var denylist *auth.Denylist
	if cfg.RedisAddr != "" {
		denylist, err = auth.NewDenylist(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer denylist.Close()
	} else {
		log.Println("Warning: REDIS_ADDR not set, logout revocation disabled")
	}

	router := handler.NewRouter(handler.RouterOptions{
		DB:           db,
		Denylist:     denylist,
		JWTSecret:    cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
	})

	fmt.Println("Server is running on :" + cfg.Port)
	fmt.Println("Swagger UI is available at http://localhost:" + cfg.Port + "/swagger/index.html")
	log.Fatal(router.Run(":" + cfg.Port))
}
