package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/config"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/handlers"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/logger"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Server.LogJSON, cfg.Server.LogDebug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	// Object storage
	storageService, err := services.NewObjectStorageService(cfg.Storage)
	if err != nil {
		zl.Fatal("failed to initialize object storage", zap.Error(err))
	}
	if err := storageService.EnsureBucket(ctx); err != nil {
		zl.Fatal("failed to ensure bucket", zap.Error(err))
	}
	zl.Info("object storage ready",
		zap.String("endpoint", cfg.Storage.Endpoint),
		zap.String("bucket", cfg.Storage.Bucket),
	)

	// Gemini (embeddings + explanations)
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, zl)
	if err != nil {
		zl.Fatal("failed to initialize gemini", zap.Error(err))
	}
	zl.Info("gemini ready",
		zap.String("model", cfg.Gemini.Model),
		zap.String("embed_model", cfg.Gemini.EmbedModel),
	)

	// Pipeline
	detector := services.NewLocalTextDetectionService(zl)
	extractor := services.NewExtractorService(
		storageService,
		detector,
		cfg.Extractor.PollInterval,
		cfg.Extractor.MaxPollAttempts,
		zl,
	)
	explainer := services.NewExplainerService(geminiService, zl)
	pipeline := services.NewPipelineService(
		storageService,
		extractor,
		geminiService,
		explainer,
		cfg.Storage.ResumesPrefix,
		cfg.Storage.ResultsPrefix,
		cfg.Matcher.TopK,
		cfg.Matcher.Concurrency,
		zl,
	)
	zl.Info("pipeline ready",
		zap.Int("top_k", cfg.Matcher.TopK),
		zap.Int("concurrency", cfg.Matcher.Concurrency),
	)

	// Handlers
	notifyHandler := handlers.NewNotifyHandler(pipeline, zl)
	uploadHandler := handlers.NewUploadHandler(
		storageService,
		cfg.Storage.Bucket,
		cfg.Storage.ResumesPrefix,
		cfg.Storage.MaxFileSize,
	)
	resultHandler := handlers.NewResultHandler(storageService, cfg.Storage.ResultsPrefix)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Match API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/events", notifyHandler.HandleEvent)
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Get("/result/:filename", resultHandler.HandleGetResult)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Match API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/events",
				"POST /api/v1/upload",
				"GET /api/v1/result/:filename",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
