// backend/cmd/server/main.go
package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/royboker/portfolio-backend/internal/api/handlers"
	"github.com/royboker/portfolio-backend/internal/chat"
	"github.com/royboker/portfolio-backend/internal/config"
	"github.com/royboker/portfolio-backend/internal/generation"
	"github.com/royboker/portfolio-backend/internal/health"
	"github.com/royboker/portfolio-backend/internal/mailer"
	"github.com/royboker/portfolio-backend/internal/middleware"
	"github.com/royboker/portfolio-backend/internal/notifier"
	"github.com/royboker/portfolio-backend/pkg/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	// Initialize logger
	logger := utils.GetLogger()
	logger.Info("Starting portfolio backend...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Mailer: missing credentials degrade /contact, they never stop the server
	if err := cfg.ValidateMail(); err != nil {
		logger.WithError(err).Warn("Mail not fully configured")
	}
	mailService := mailer.NewService(cfg, logger)

	// Analytics notifier with background dispatcher
	analyticsNotifier := notifier.New(mailService, cfg.Notifier.Cooldown, logger, nil)
	dispatcher := notifier.NewDispatcher(analyticsNotifier, cfg.Notifier.Workers, 64, logger)
	defer dispatcher.Close()

	// Generator: nil disables answers and summaries, uploads still work
	var generator generation.Generator
	if err := cfg.ValidateGemini(); err != nil {
		logger.WithError(err).Warn("Document chat degraded: generation disabled")
	} else {
		gemini, err := generation.NewGeminiClient(context.Background(), cfg.Chat.GeminiAPIKey, cfg.Chat.Model, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Gemini client, generation disabled")
		} else {
			generator = gemini
		}
	}

	chatService := chat.NewService(generator, chat.Config{
		MaxQuestions:   cfg.Chat.MaxQuestions,
		SessionTTL:     cfg.Chat.SessionTTL,
		MaxUploadBytes: cfg.Chat.MaxUploadBytes,
		DocCharLimit:   cfg.Chat.DocCharLimit,
		RequestTimeout: cfg.Chat.RequestTimeout,
	}, logger, nil)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	chatService.StartSweeper(sweepCtx, time.Hour)

	checker := health.NewChecker(cfg, chatService.Store(), logger)

	// Handlers
	statusHandler := handlers.NewStatusHandler(checker, cfg.Server.ServiceName, cfg.Server.HealthName)
	contactHandler := handlers.NewContactHandler(mailService, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(dispatcher, logger)
	chatHandler := handlers.NewChatHandler(chatService, cfg.Chat.MaxUploadBytes, logger)

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", statusHandler.HandleRoot)
	router.GET("/health", statusHandler.HandleHealth)
	router.POST("/contact", contactHandler.HandleContact)
	router.POST("/analytics/event", analyticsHandler.HandleEvent)

	// The chat endpoints sit behind a rate limit to protect the model quota
	chatLimiter := middleware.NewRateLimiter(30)
	chatGroup := router.Group("/chat")
	chatGroup.Use(chatLimiter.RateLimit())
	{
		chatGroup.POST("/upload", chatHandler.HandleUpload)
		chatGroup.POST("/ask", chatHandler.HandleAsk)
		chatGroup.GET("/session/:id", chatHandler.HandleSessionInfo)
	}

	logger.WithField("port", cfg.Server.Port).Info("Server listening")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}
