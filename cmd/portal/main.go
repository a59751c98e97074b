package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voevoda-access/internal/application"
	"voevoda-access/internal/config"
	"voevoda-access/internal/domain/ports/adapter"
	"voevoda-access/internal/domain/ports/repository"
	"voevoda-access/internal/infra/adapters/keys"
	"voevoda-access/internal/infra/logging"
	"voevoda-access/internal/infra/memstate"
	"voevoda-access/internal/infra/metrics"
	red "voevoda-access/internal/infra/redis"
	"voevoda-access/internal/infra/sched"
	"voevoda-access/internal/infra/web"
	"voevoda-access/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (in-memory key service)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidatePortal(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	if cfg.Metrics.Enabled {
		metrics.MustRegister()
		metrics.SetBuildInfo(version, commit)
	}

	// ---- Key service ----
	var ks adapter.KeyService
	if cfg.Runtime.Dev {
		ks = keys.NewNoopKeyService()
	} else {
		hks, err := keys.NewHTTPKeyService(cfg.Keys.BaseURL, cfg.Keys.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("key service")
		}
		ks = hks
	}
	logger.Info().Str("provider", ks.Name()).Str("base_url", cfg.Keys.BaseURL).Msg("key service ready")

	// ---- Page state ----
	var (
		states repository.PageStateRepository
		locks  repository.SessionLocker
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		states = red.NewPageStateRepo(redisClient, cfg.Redis.TTL)
		locks = red.NewSessionLocker(redisClient, 30*time.Second)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("page state in redis")
	} else {
		store := memstate.New(cfg.Portal.SessionTTL)
		go func() { _ = sched.NewSweepWorker(time.Minute, store, logger).Run(ctx) }()
		states = store
		locks = memstate.NewLocker()
		logger.Info().Msg("page state in memory")
	}

	// ---- Use case & page ----
	uc, err := usecase.NewAccessUseCase(ks, cfg.Keys.SubKey, cfg.Keys.RootURL, logger, cfg.Runtime.Dev)
	if err != nil {
		logger.Fatal().Err(err).Msg("access use case")
	}
	page := application.NewAccessPage(uc, cfg.Page, logger)

	// ---- HTTP server ----
	sessions := web.NewSessionManager(cfg.Portal.SessionSecret, cfg.Portal.SecureCookie, cfg.Portal.SessionTTL)
	srv := web.NewServer(page, states, locks, sessions, cfg.Page, cfg.Metrics.Enabled, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Portal.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("portal listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
		os.Exit(1)
	}
}
