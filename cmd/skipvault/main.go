package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/analysis"
	"github.com/JustinTDCT/SkipVault/internal/api"
	"github.com/JustinTDCT/SkipVault/internal/config"
	"github.com/JustinTDCT/SkipVault/internal/db"
	"github.com/JustinTDCT/SkipVault/internal/fingerprint"
	"github.com/JustinTDCT/SkipVault/internal/jobs"
	"github.com/JustinTDCT/SkipVault/internal/markers"
	"github.com/JustinTDCT/SkipVault/internal/repository"
	"github.com/JustinTDCT/SkipVault/internal/scheduler"
	"github.com/JustinTDCT/SkipVault/internal/version"
	"github.com/JustinTDCT/SkipVault/internal/watcher"
)

func main() {
	ver := version.Load()
	log.Printf("SkipVault %s starting...", ver.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	mediaRepo := repository.NewMediaRepository(database.DB)
	segmentRepo := repository.NewSegmentRepository(database.DB)
	settingsRepo := repository.NewSettingsRepository(database.DB)
	libRepo := repository.NewLibraryRepository(database.DB)

	analysisCfg := config.NewAnalysisConfig(settingsRepo)
	engine := fingerprint.NewEngine(cfg.FFmpegPath, cfg.FingerprintCacheDir(), segmentRepo)
	writer := markers.NewWriter(segmentRepo, func() markers.Mode {
		return markers.Mode(analysisCfg.OutputMode())
	})

	sched := analysis.NewScheduler(
		analysis.NewQueue(mediaRepo),
		analysis.NewVerifier(mediaRepo, segmentRepo),
		analysis.NewSeasonAnalyzer(engine),
		writer,
		analysisCfg,
	)

	jobQueue := jobs.NewQueue(cfg.RedisAddr)
	defer jobQueue.Stop()

	wsHub := api.NewWSHub()
	srv := api.NewServer(cfg, database, jobQueue, wsHub)

	jobs.RegisterHandlers(jobQueue, jobs.NewAnalyzeHandler(sched, settingsRepo, wsHub))
	if err := jobQueue.Start(); err != nil {
		log.Fatalf("job queue failed to start: %v", err)
	}

	cronSched := scheduler.New(analysisCfg, func() {
		if err := jobs.EnqueueAnalyze(jobQueue, "schedule"); err != nil {
			log.Printf("scheduled analysis enqueue failed: %v", err)
		}
	})
	if err := cronSched.Start(); err != nil {
		log.Fatalf("scheduler failed to start: %v", err)
	}
	defer cronSched.Stop()

	fsWatcher, err := watcher.New(libRepo, func(libraryID uuid.UUID) {
		_ = libRepo.UpdateLastScan(libraryID)
		if err := jobs.EnqueueAnalyze(jobQueue, "watcher"); err != nil {
			log.Printf("watcher analysis enqueue failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("filesystem watcher unavailable: %v", err)
	} else {
		fsWatcher.Start()
		defer fsWatcher.Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
