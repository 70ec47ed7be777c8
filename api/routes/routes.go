package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/khamphay/laolotto-bot/internal/config"
	"github.com/khamphay/laolotto-bot/internal/handlers"
	"github.com/khamphay/laolotto-bot/internal/middleware"
	"github.com/khamphay/laolotto-bot/internal/telegram"
)

// Handlers bundles the HTTP handlers wired by the entrypoint
type Handlers struct {
	Auth   *handlers.AuthHandler
	Wager  *handlers.WagerHandler
	Result *handlers.ResultHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, bot *telegram.Bot, h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Telegram webhook. The bot token in the path authenticates Telegram.
	if bot != nil {
		router.POST("/webhook/:token", func(c *gin.Context) {
			if c.Param("token") != cfg.Telegram.BotToken {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			var update tgbotapi.Update
			if err := c.ShouldBindJSON(&update); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			bot.HandleUpdate(c.Request.Context(), update)
			c.Status(http.StatusOK)
		})
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		rounds := protected.Group("/rounds")
		{
			rounds.GET("/current", h.Wager.GetCurrentRound)
			rounds.GET("/:roundId/stats", h.Wager.GetRoundStats)
			rounds.GET("/:roundId/winners", h.Wager.GetWinners)
			rounds.DELETE("/:roundId/wagers", h.Wager.ClearRound)
		}

		protected.DELETE("/wagers", h.Wager.ClearAll)

		results := protected.Group("/results")
		{
			results.POST("", h.Result.PublishDraft)
			results.GET("/latest", h.Result.GetLatest)
			results.GET("/:roundId", h.Result.GetByRound)
			results.POST("/:roundId/announce", h.Result.Announce)
			results.DELETE("", h.Result.DeleteAll)
		}
	}

	return router
}
