package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/timestables/internal/api"
	"github.com/vytor/timestables/internal/config"
	"github.com/vytor/timestables/internal/db"
	"github.com/vytor/timestables/internal/jobs"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/repository/cache"
	"github.com/vytor/timestables/internal/repository/sqlite"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/services"
	"github.com/vytor/timestables/internal/store"
	"github.com/vytor/timestables/internal/worker"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Times Tables Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("redis_addr=%s", cfg.RedisAddr)
	log.Debug("stats_worker_count=%d", cfg.StatsWorkerCount)
	log.Debug("stats_queue_size=%d", cfg.StatsQueueSize)
	log.Debug("question_count default=%d max=%d", cfg.DefaultQuestionCount, cfg.MaxQuestionCount)
	log.Debug("default_theme=%s", cfg.DefaultTheme)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	profileRepo := sqlite.NewProfileRepository(database.DB)
	challengeRepo := sqlite.NewChallengeRepository(database.DB)
	var progressRepo repository.ProgressRepository = sqlite.NewProgressRepository(database.DB)

	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Warn("redis unreachable at %s, progress cache disabled: %v", cfg.RedisAddr, err)
		} else {
			log.Info("progress cache enabled: redis=%s ttl=%ds", cfg.RedisAddr, cfg.CacheTTLSeconds)
			progressRepo = cache.NewProgressCache(progressRepo, rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		}
	}

	defaultTheme, _ := rewards.ParseTheme(cfg.DefaultTheme)

	statsPool := worker.NewPool(cfg.StatsWorkerCount, cfg.StatsQueueSize)
	jobQueue := jobs.NewWorkerQueue(statsPool, challengeRepo)
	stores := store.NewRegistry(progressRepo)

	srv := &api.Server{
		ProfileService: services.NewProfileService(profileRepo, progressRepo, stores, defaultTheme),
		ChallengeService: services.NewChallengeService(challengeRepo, profileRepo, stores, jobQueue, services.ChallengeLimits{
			DefaultQuestionCount: cfg.DefaultQuestionCount,
			MaxQuestionCount:     cfg.MaxQuestionCount,
			DefaultTheme:         defaultTheme,
		}),
		ProgressService: services.NewProgressService(stores, profileRepo, challengeRepo, defaultTheme),
		DB:              database,
		DefaultTheme:    defaultTheme,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Debug("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error: %v", err)
	}

	log.Debug("stopping stats pool")
	statsPool.Stop()

	log.Info("===========================================")
	log.Info("Times Tables Server Stopped")
	log.Info("===========================================")
}
