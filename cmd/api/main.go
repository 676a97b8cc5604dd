package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/browser"
	"quizforge/internal/adapter/embedding"
	"quizforge/internal/adapter/textgen"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/contextstore"
	"quizforge/internal/dto"
	"quizforge/internal/fetcher"
	"quizforge/internal/generator"
	"quizforge/internal/handler"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/repository"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Persistence
	db, err := repository.NewMongoDatabase(ctx, cfg.Mongo)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	quizRepo := repository.NewQuizRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	recRepo := repository.NewRecommendationRepository(db)
	if err := subRepo.InitializeIndexes(ctx); err != nil {
		appLogger.Fatal("Failed to create submission indexes", zap.Error(err))
	}
	if err := regRepo.InitializeIndexes(ctx); err != nil {
		appLogger.Fatal("Failed to create registration indexes", zap.Error(err))
	}

	// Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Generation stack
	embeddingService, err := embedding.NewGoogleAIEmbeddingService(ctx, cfg.GenAI.APIKey, cfg.GenAI.EmbeddingModel, cacheAdapter)
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}
	llm, err := textgen.NewGoogleAIGenerator(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}
	textGen := generator.New(llm)
	renderer := browser.NewChromedpRenderer(cfg.Fetcher.SettleDelay)
	newsFetcher := fetcher.NewFetcher(cfg.Fetcher, renderer)
	store := contextstore.NewStore(cfg.ContextStore, embeddingService)

	// Services
	quizService := service.NewQuizService(quizRepo, recRepo, newsFetcher, store, textGen, cfg.Quiz, cfg.Fetcher)
	attemptService := service.NewAttemptService(quizRepo, subRepo, regRepo)
	recService := service.NewRecommendationService(recRepo, newsFetcher, cacheAdapter)

	// Handlers
	tf := dto.NewTimeFormatter(cfg.DisplayZone)
	quizHandler := handler.NewQuizHandler(quizService, tf)
	attemptHandler := handler.NewAttemptHandler(attemptService, tf)
	recHandler := handler.NewRecommendationHandler(recService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	auth := middleware.Protected(cfg.JWTSecret)

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", healthHandler.Check)

	adminGroup := apiGroup.Group("/admin", auth, middleware.AdminOnly())
	adminGroup.Get("/quiz/history", quizHandler.History)
	adminGroup.Get("/quiz/:id", quizHandler.Get)
	adminGroup.Delete("/quiz/:id", quizHandler.Delete)
	adminGroup.Post("/quiz/review", quizHandler.Review)
	adminGroup.Post("/quiz/regenerate", quizHandler.Regenerate)
	adminGroup.Post("/quiz/schedule", quizHandler.Schedule)

	quizGroup := apiGroup.Group("/quiz", auth)
	quizGroup.Post("/generate", middleware.AdminOnly(), quizHandler.Generate)
	quizGroup.Get("/upcoming", attemptHandler.Upcoming)
	quizGroup.Post("/register/:id", attemptHandler.Register)
	quizGroup.Get("/register/:id/check", attemptHandler.CheckRegistration)
	quizGroup.Get("/registered", attemptHandler.Registered)
	quizGroup.Post("/submit/:id", attemptHandler.Submit)
	quizGroup.Get("/results/:id", attemptHandler.Results)
	quizGroup.Get("/leaderboard/:id", attemptHandler.Leaderboard)
	quizGroup.Get("/:id", attemptHandler.GetForAttempt)

	apiGroup.Get("/user/submissions", auth, attemptHandler.Submissions)
	apiGroup.Get("/recommendations", auth, recHandler.Get)

	go func() {
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	appLogger.Info("Server started", zap.Int("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		appLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		appLogger.Error("Failed to close Redis client", zap.Error(err))
	}
	appLogger.Info("Server exited")
}
