package handler

import (
	"net/http"

	"grimoire/backend/internal/auth"
	"grimoire/backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterOptions carries everything the route table needs.
type RouterOptions struct {
	DB           *gorm.DB
	Denylist     *auth.Denylist
	JWTSecret    string
	ClientOrigin string
}

// NewRouter builds the gin engine with all routes wired to handlers. The
// database handle flows into the services here; nothing downstream reaches
// for globals.
func NewRouter(opts RouterOptions) *gin.Engine {
	accounts := service.NewAccountService(opts.DB)
	catalog := service.NewCatalogService(opts.DB)
	ratings := service.NewRatingService(opts.DB)
	library := service.NewLibraryService(opts.DB)

	users := NewUserHandler(accounts, opts.Denylist, opts.JWTSecret)
	games := NewGameHandler(catalog, ratings)
	userGames := NewUserGameHandler(library)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Gamer's Grimoire")
	})

	authRequired := auth.Middleware(opts.JWTSecret, opts.Denylist)

	api := router.Group("/api")
	{
		api.POST("/register", users.Register)
		api.POST("/login", users.Login)
		api.POST("/logout", authRequired, users.Logout)

		userRoutes := api.Group("/users")
		userRoutes.Use(authRequired)
		{
			userRoutes.GET("/:id", users.GetUser)
			userRoutes.PUT("/:id", users.UpdateProfile)
			userRoutes.PUT("/:id/password", users.UpdatePassword)
			userRoutes.DELETE("/:id", users.DeleteAccount)
		}

		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", games.GetGames)
			gameRoutes.GET("/:gameId", games.GetGameByID)
			gameRoutes.POST("/add", authRequired, games.CreateGame)
			gameRoutes.POST("/:gameId/rate", authRequired, games.RateGame)
		}

		userGameRoutes := api.Group("/user-games")
		userGameRoutes.Use(authRequired)
		{
			userGameRoutes.POST("/add", userGames.AddGame)
			userGameRoutes.PUT("/status", userGames.UpdateStatus)
			userGameRoutes.GET("/list/:userId", userGames.GetList)
			userGameRoutes.DELETE("/:userId/:gameId", userGames.RemoveGame)
		}
	}

	return router
}
