package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/api"
	"github.com/brandmonitor/brandmonitor/internal/archive"
	"github.com/brandmonitor/brandmonitor/internal/auth"
	"github.com/brandmonitor/brandmonitor/internal/config"
	"github.com/brandmonitor/brandmonitor/internal/extract"
	"github.com/brandmonitor/brandmonitor/internal/ids"
	"github.com/brandmonitor/brandmonitor/internal/monitoring"
	"github.com/brandmonitor/brandmonitor/internal/notifications"
	"github.com/brandmonitor/brandmonitor/internal/search"
	"github.com/brandmonitor/brandmonitor/internal/sources"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Brand Monitor")

	// Initialize storage and run migrations
	db, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Build the ingestion pipeline
	idGen := ids.NewGenerator(nil)
	extractor := extract.NewExtractor(nil)
	mock := search.NewMockGenerator(nil)

	var provider search.Provider
	if cfg.HasGoogleSearch() {
		provider = search.NewGoogleClient(cfg.GoogleAPIKey, cfg.GoogleSearchEngineID)
	} else {
		logrus.Warn("Google search is not configured, serving synthetic mentions")
	}
	searcher := search.NewSearcher(provider, idGen, extractor, mock)

	authManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	// Notification and archive channels for scheduled digests
	notifier := notifications.NewService(cfg)

	var archiver archive.Archiver
	if cfg.ArchiveAccount != "" {
		archiver, err = archive.NewAzureArchive(cfg.ArchiveAccount, cfg.ArchiveContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize digest archive: %v", err)
		}
	}

	// Direct platform sources for scheduled monitoring
	platformSources := []sources.Source{
		sources.NewTwitterSource(cfg.TwitterBearerToken, idGen, mock),
		sources.NewRedditSource(cfg.RedditClientID, cfg.RedditClientSecret, idGen, mock),
		sources.NewFacebookSource(cfg.FacebookAccessToken, idGen, mock),
		sources.NewNewsSource(searcher),
	}

	monitoringService := monitoring.NewService(cfg, db, notifier, archiver, platformSources)
	scheduler := monitoring.NewScheduler(cfg, monitoringService)

	if err := scheduler.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Set up the HTTP API
	apiServer := api.NewServer(db, searcher, authManager, archiver)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
