// neoboard/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"neoboard/config"
	"neoboard/database"
	"neoboard/handlers"
	"neoboard/models"
	"neoboard/utils"
)

type Application struct {
	db        *database.DatabaseService
	logger    *slog.Logger
	uploadDir string
	storage   models.StorageService
}

// Methods to satisfy the handlers.App interface
func (a *Application) DB() *database.DatabaseService { return a.db }
func (a *Application) Logger() *slog.Logger          { return a.logger }
func (a *Application) UploadDir() string             { return a.uploadDir }
func (a *Application) Storage() models.StorageService { return a.storage }

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	dbService, err := database.InitDB(cfg.DBPath, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbService.DB.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, config.IDCardSubdir), 0755); err != nil {
		logger.Error("FATAL: Could not create uploads directory", "error", err)
		os.Exit(1)
	}

	// --- Storage Service Init ---
	var storageService models.StorageService
	if cfg.S3Enabled {
		storageService, err = utils.NewS3Storage(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			logger.Error("Failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		logger.Info("S3 storage initialized", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		storageService = &utils.LocalStorage{UploadDir: cfg.UploadDir}
		logger.Info("Local storage initialized", "dir", cfg.UploadDir)
	}

	app := &Application{
		db:        dbService,
		logger:    logger,
		uploadDir: cfg.UploadDir,
		storage:   storageService,
	}

	mux := handlers.SetupRouter(app)

	// --- Graceful Shutdown ---
	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("neoboard server started successfully",
		"version", config.AppVersion,
		"address", "http://localhost:"+cfg.Port,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("Server exiting")
}
