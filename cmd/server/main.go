package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/menuflash/internal/api"
	"github.com/vytor/menuflash/internal/config"
	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/db"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/repository/sqlite"
	"github.com/vytor/menuflash/internal/scheduler"
	"github.com/vytor/menuflash/internal/services"
	"github.com/vytor/menuflash/internal/study"
	"github.com/vytor/menuflash/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MenuFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("menu_path=%s", cfg.MenuPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("auto_advance_delay_ms=%d", cfg.AutoAdvanceDelayMs)
	log.Debug("session_ttl_minutes=%d", cfg.SessionTTLMinutes)
	log.Debug("session_sweep_minutes=%d", cfg.SessionSweepMins)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("rate_limit=%d/s burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)

	// The menu is required; a broken dataset stops startup.
	catalog, err := content.LoadFile(cfg.MenuPath)
	if err != nil {
		log.Error("failed to load menu from %s: %v", cfg.MenuPath, err)
		os.Exit(1)
	}
	log.Info("menu loaded: %d items in %d categories", len(catalog.Items()), len(catalog.Categories()))
	menu := content.NewSource(catalog)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	progressRepo := sqlite.NewProgressRepository(database.DB)
	profileRepo := sqlite.NewProfileRepository(database.DB)
	practiceTestRepo := sqlite.NewPracticeTestRepository(database.DB)

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	// Initialize services
	menuService := services.NewMenuService(menu, importPool)
	progressService := services.NewProgressService(progressRepo, menu)
	profileService := services.NewProfileService(profileRepo, progressRepo, practiceTestRepo)
	achievementService := services.NewAchievementService(profileService, progressRepo, practiceTestRepo, menu)
	studyService := services.NewStudyService(
		study.NewStore(cfg.SessionTTL()),
		study.NewAutoAdvancer(cfg.AutoAdvanceDelay()),
		menu,
		progressService,
		profileService,
		achievementService,
	)

	srv := &api.Server{
		Menu:           menuService,
		Progress:       progressService,
		Profiles:       profileService,
		Achievements:   achievementService,
		Study:          studyService,
		DB:             database,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	jobs := scheduler.New(studyService, progressService, cfg.SessionSweepInterval())
	if err := jobs.Start(); err != nil {
		log.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler")
	jobs.Stop()

	log.Debug("stopping import pool")
	cancel()
	importPool.Stop()

	log.Info("===========================================")
	log.Info("MenuFlash Server Stopped")
	log.Info("===========================================")
}
