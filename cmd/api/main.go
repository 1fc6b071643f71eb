package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"atsscore/ats-analyzer/internal/config"
	"atsscore/ats-analyzer/internal/handlers"
	"atsscore/ats-analyzer/internal/repositories"
	"atsscore/ats-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	diagRepo := repositories.NewDiagnosticRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.RetryDelay,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize extraction services
	downloader := services.NewDocumentDownloader(
		cfg.Extractor.DownloadTimeout,
		cfg.Extractor.MaxDownloadBytes,
	)
	extractor := services.NewDocumentExtractor(services.ExtractorConfig{
		MinFileSize:      cfg.Extractor.MinFileSize,
		FallbackMinChars: cfg.Extractor.FallbackMinChars,
		ScannedMinBytes:  cfg.Extractor.ScannedMinBytes,
		ScannedMaxChars:  cfg.Extractor.ScannedMaxChars,
		MaxOCRImages:     cfg.Extractor.MaxOCRImages,
		GarbageRatio:     cfg.Extractor.GarbageRatio,
	}, geminiService)
	log.Println("✅ Extraction services initialized successfully")

	// Initialize analysis pipeline
	pipeline := services.NewAnalysisPipeline(
		services.PipelineConfig{
			MinContentChars: cfg.Analysis.MinContentChars,
			MaxCVChars:      cfg.Analysis.MaxCVChars,
			MaxJobChars:     cfg.Analysis.MaxJobChars,
			MaxRetries:      cfg.Analysis.MaxRetries,
			Temperature:     float32(cfg.Analysis.Temperature),
		},
		downloader,
		extractor,
		services.NewSectionParser(),
		services.NewJobScraper(cfg.Analysis.ScrapeTimeout, cfg.Analysis.MaxJobChars),
		services.NewPromptBuilder(),
		geminiService,
		services.NewSemanticValidator(services.NewEquivalenceMatcher()),
		services.NewScoreRepairer(),
	)
	log.Println("✅ Analysis pipeline initialized")

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(
		diagRepo,
		pipeline,
		cfg.Analysis.StoredCVChars,
		cfg.Analysis.StoredJobChars,
	)
	diagnosticHandler := handlers.NewDiagnosticHandler(diagRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Extractor.MaxDownloadBytes),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/diagnostics", diagnosticHandler.HandleListByEmail)
	api.Get("/diagnostics/:id", diagnosticHandler.HandleGetDiagnostic)
	api.Post("/diagnostics/:id/confirm-payment", diagnosticHandler.HandleConfirmPayment)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ATS Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/analyze",
				"GET /api/v1/diagnostics?email=",
				"GET /api/v1/diagnostics/:id",
				"POST /api/v1/diagnostics/:id/confirm-payment",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
