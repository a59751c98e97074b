package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"voevoda-access/internal/application"
	"voevoda-access/internal/config"
	"voevoda-access/internal/domain/ports/adapter"
	"voevoda-access/internal/infra/adapters/keys"
	"voevoda-access/internal/infra/logging"
	"voevoda-access/internal/infra/terminal"
	"voevoda-access/internal/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (in-memory key service)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// stdout belongs to the console; logs go to stderr
	logger := logging.NewWithWriter(cfg.Log, cfg.Runtime.Dev, os.Stderr)

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

	uc, err := usecase.NewAccessUseCase(ks, cfg.Keys.SubKey, cfg.Keys.RootURL, logger, cfg.Runtime.Dev)
	if err != nil {
		logger.Fatal().Err(err).Msg("access use case")
	}
	page := application.NewAccessPage(uc, cfg.Page, logger)

	console := terminal.NewConsole(page, cfg.Page, os.Stdin, os.Stdout)
	if _, err := console.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("console")
		os.Exit(1)
	}
}
