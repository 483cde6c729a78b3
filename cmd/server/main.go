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
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/mediagrab/mediagrab/internal/cleanup"
	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/extract"
	"github.com/mediagrab/mediagrab/internal/handlers"
	"github.com/mediagrab/mediagrab/internal/registry"
	"github.com/mediagrab/mediagrab/internal/runner"
)

const version = "1.0.0"

func main() {
	// Optional .env for local development; environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cleanup.EnsureDirExists(cfg.Storage.DownloadDir); err != nil {
		log.Fatalf("Failed to create download directory: %v", err)
	}

	log.Println("Initializing components...")

	reg := registry.New()
	fetcher := extract.NewYTDLP(cfg.Storage.DownloadDir)
	jobRunner := runner.New(reg, fetcher)

	sweeper := cleanup.NewSweeper(
		cfg.Storage.DownloadDir,
		time.Duration(cfg.Cleanup.IntervalMinutes)*time.Minute,
		time.Duration(cfg.Cleanup.MaxAgeMinutes)*time.Minute,
	)
	sweeper.Start()
	defer sweeper.Stop()

	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	downloadHandler := handlers.NewDownloadHandler(reg, jobRunner)
	statusHandler := handlers.NewStatusHandler(reg)
	fileHandler := handlers.NewFileHandler(reg, cfg.Storage.DownloadDir)
	progressHandler := handlers.NewProgressHandler(reg)

	// Service descriptor
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Media Download API",
			"version": version,
			"endpoints": fiber.Map{
				"youtube":       "/api/download/youtube",
				"facebook":      "/api/download/facebook",
				"instagram":     "/api/download/instagram",
				"status":        "/api/status/:id",
				"download_file": "/api/file/:id",
				"downloads":     "/api/downloads",
				"health":        "/api/health",
				"progress":      "/ws/progress/:id",
			},
			"supported_formats": []string{"mp3", "mp4"},
			"parameters": fiber.Map{
				"url":    "Video/audio URL",
				"format": "mp3 or mp4 (default mp4)",
			},
		})
	})

	// Routes
	app.Post("/api/download/:platform", downloadHandler.Handle)
	app.Get("/api/status/:id", statusHandler.GetStatus)
	app.Get("/api/file/:id", fileHandler.GetFile)
	app.Get("/api/downloads", statusHandler.ListDownloads)
	app.Get("/api/health", statusHandler.Health)

	// WebSocket route
	app.Get("/ws/progress/:id", websocket.New(progressHandler.Handle))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /api/download/:platform - Start a download (youtube, facebook, instagram)")
	log.Println("   GET  /api/status/:id         - Download status")
	log.Println("   GET  /api/file/:id           - Fetch finished file")
	log.Println("   GET  /api/downloads          - List all downloads")
	log.Println("   GET  /api/health             - Health check")
	log.Println("   GET  /ws/progress/:id        - Live progress stream")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
