package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/khamphay/laolotto-bot/api/routes"
	"github.com/khamphay/laolotto-bot/internal/config"
	"github.com/khamphay/laolotto-bot/internal/handlers"
	"github.com/khamphay/laolotto-bot/internal/repositories"
	mongorepo "github.com/khamphay/laolotto-bot/internal/repositories/mongodb"
	"github.com/khamphay/laolotto-bot/internal/scheduler"
	"github.com/khamphay/laolotto-bot/internal/services"
	"github.com/khamphay/laolotto-bot/internal/telegram"
	"github.com/khamphay/laolotto-bot/pkg/mongodb"
)

func main() {
	// Load .env if present; real deployments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyEnvOverrides(cfg)

	setupLogger(cfg.LogLevel)

	if cfg.Telegram.BotToken == "" {
		slog.Error("BOT_TOKEN is not configured")
		os.Exit(1)
	}

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize repositories
	var wagerRepo repositories.WagerRepository = mongorepo.NewWagerRepository(db)
	var resultRepo repositories.ResultRepository = mongorepo.NewResultRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndex()
	if err := wagerRepo.EnsureIndexes(indexCtx); err != nil {
		slog.Error("Failed to ensure wager indexes", "error", err)
		os.Exit(1)
	}
	if err := resultRepo.EnsureIndexes(indexCtx); err != nil {
		slog.Error("Failed to ensure result indexes", "error", err)
		os.Exit(1)
	}

	// Initialize services
	clock, err := services.NewRoundClock(cfg.Draw)
	if err != nil {
		slog.Error("Failed to build round clock", "error", err)
		os.Exit(1)
	}
	wagerService := services.NewWagerService(wagerRepo, clock)
	resultService := services.NewResultService(resultRepo)
	prizeService := services.NewPrizeService(cfg.Telegram.AdminIDs)
	authService := services.NewAuthService(adminRepo, cfg)

	// Initialize the Telegram transport and the round lifecycle it delivers
	bot, err := telegram.New(cfg, clock, wagerService, resultService)
	if err != nil {
		slog.Error("Failed to initialise telegram bot", "error", err)
		os.Exit(1)
	}
	lifecycle := services.NewLifecycleService(
		clock, wagerService, resultService, prizeService,
		bot, bot.Formatter(), cfg.Telegram.AnnounceChatID,
	)
	bot.WithLifecycle(lifecycle)

	// Schedule the reminder and announcement jobs on draw days
	sched, err := scheduler.New(cfg.Draw, clock, lifecycle)
	if err != nil {
		slog.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telegram.WebhookURL != "" {
		if err := bot.SetWebhook(); err != nil {
			slog.Error("Failed to register webhook", "error", err)
			os.Exit(1)
		}
	} else {
		go bot.StartPolling(ctx)
	}

	authHandler := handlers.NewAuthHandler(authService)
	wagerHandler := handlers.NewWagerHandler(wagerService, clock)
	resultHandler := handlers.NewResultHandler(resultService, clock)

	router := routes.SetupRouter(cfg, bot, routes.Handlers{
		Auth:   authHandler,
		Wager:  wagerHandler,
		Result: resultHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port, "bot", bot.Username())

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		// Fall through to the same shutdown path so the scheduler stops and
		// Mongo disconnects before exit
		slog.Error("Server failed", "error", err)
	case <-quit:
		slog.Info("Shutting down")
	}

	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}

// applyEnvOverrides maps the flat environment variables used in deployment to
// their config fields. Environment always wins over file values.
func applyEnvOverrides(cfg *config.Config) {
	cfg.Telegram.BotToken = config.GetEnv("BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.WebhookURL = config.GetEnv("WEBHOOK_URL", cfg.Telegram.WebhookURL)
	cfg.MongoDB.URI = config.GetEnv("MONGO_URI", cfg.MongoDB.URI)
	cfg.JWT.Secret = config.GetEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.Server.Port = config.GetEnv("PORT", cfg.Server.Port)

	cfg.Telegram.AnnounceChatID = config.GetEnvAsInt64("ANNOUNCE_CHAT_ID", cfg.Telegram.AnnounceChatID)

	adminIDs := config.GetEnvAsInt64Slice("ADMIN_IDS", ",", cfg.Telegram.AdminIDs)
	if super := config.GetEnvAsInt64("SUPER_ADMIN_ID", 0); super != 0 {
		adminIDs = append([]int64{super}, adminIDs...)
	}
	cfg.Telegram.AdminIDs = adminIDs
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
