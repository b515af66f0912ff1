package handlers

import (
	"time"

	"signlearn/internal/infrastructure/security"
	"signlearn/internal/middleware"
	"signlearn/internal/transport/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	authHandler *AuthHandler,
	gameHandler *GameHandler,
	battlepassHandler *BattlepassHandler,
	itemHandler *ItemHandler,
	taskHandler *TaskHandler,
	hub *ws.Hub,
	limiter *middleware.RateLimiter,
	tokens *security.TokenManager,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "x-access-token"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password-request", limiter.Limit("forgot_pass", 1, 5*time.Minute), authHandler.ForgotPassword)
			auth.POST("/validate-reset-code", authHandler.ValidateResetCode)
			auth.POST("/forgot-reset-password", authHandler.ResetPassword)
		}

		game := api.Group("/game")
		game.Use(middleware.AuthMiddleware(tokens))
		{
			game.GET("/profile", gameHandler.GetProfile)
			game.PUT("/preferences", gameHandler.UpdatePreferences)

			game.POST("/complete-level", gameHandler.CompleteLevel)
			game.GET("/list-tasks", taskHandler.ListTasks)
			game.GET("/achievements", taskHandler.ListAchievements)

			game.GET("/hearts", gameHandler.GetHearts)
			game.POST("/consume-heart", gameHandler.ConsumeHeart)

			game.GET("/battlepass", battlepassHandler.Status)
			game.POST("/claim-battlepass", battlepassHandler.Claim)

			game.GET("/shop", itemHandler.Shop)
			game.GET("/inventory", itemHandler.Inventory)
			game.POST("/buy-item", itemHandler.BuyItem)
			game.POST("/consume-item", itemHandler.ConsumeItem)
		}
	}

	// WebSocket live fabric; the token travels as a query parameter because
	// browsers cannot set headers on the upgrade request.
	r.GET("/live", hub.HandleConnect)

	return r
}
