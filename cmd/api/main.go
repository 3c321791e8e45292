// @title Quiz Generator API
// @version 1.0
// @description Generates quizzes from uploaded study material with LLM providers.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8000
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-gen/cmd/api/docs"
	"quiz-gen/internal/adapter"
	"quiz-gen/internal/adapter/quizgen"
	"quiz-gen/internal/cache"
	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/events"
	"quiz-gen/internal/extractor"
	"quiz-gen/internal/handler"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/middleware"
	"quiz-gen/internal/repository"
	"quiz-gen/internal/service"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// multipart framing on top of the largest accepted file
const bodyLimitSlack = 1 << 20

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
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

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Redis is optional; without it every generation calls the provider.
	var llmCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, LLM response cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			llmCache = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("RedisCacheAdapter initialized", zap.String("address", cfg.Redis.Address))
		}
	}

	providers := quizgen.NewProviderSet(ctx, cfg.LLM, llmCache, cfg.Cache.LLMTTL, appLogger)
	if providers.Generator != nil {
		appLogger.Info("LLM providers initialized",
			zap.String("generator", providers.Generator.Name()),
			zap.Bool("mock_mode", providers.MockMode))
	}

	store := repository.NewMemoryStore()
	bus := events.NewBus(appLogger)

	fileService := service.NewFileService(store, extractor.New(appLogger), bus, cfg.Upload.MaxFileSize, appLogger)
	generationService := service.NewGenerationService(store, store, fileService, providers.Generator, providers.Members, bus, appLogger)
	quizService := service.NewQuizService(store, appLogger)
	exportService := service.NewExportService(store, appLogger)
	statusService := service.NewStatusService(providers.Generator, providers.Members, providers.Skipped, providers.MockMode, appLogger)

	if err := bus.Subscribe(ctx, domain.TopicFileUploaded, events.Decode(fileService.HandleFileUploaded)); err != nil {
		appLogger.Fatal("Failed to subscribe to upload events", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    int(cfg.Upload.MaxFileSize) + bodyLimitSlack,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app,
		handler.NewFileHandler(fileService),
		handler.NewQuizHandler(generationService, quizService, exportService),
		handler.NewStatusHandler(statusService),
		validation.NewValidator(),
	)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	stop()
	if err := bus.Close(); err != nil {
		appLogger.Warn("Failed to close event bus", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
