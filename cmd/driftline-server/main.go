package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattcarrick/driftline/internal/clients/brokerlink"
	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/server"
	"github.com/mattcarrick/driftline/internal/services/model"
	"github.com/mattcarrick/driftline/internal/services/rebalance"
	"github.com/mattcarrick/driftline/internal/storage/surrealdb"
)

func main() {
	configPath := os.Getenv("DRIFTLINE_CONFIG")
	if configPath == "" {
		configPath = "driftline.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)
	common.PrintBanner(config, logger)

	storage, err := surrealdb.NewManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to storage")
	}
	defer storage.Close()

	brokerage := brokerlink.NewClient(config.Clients.BrokerLink.APIKey,
		brokerlink.WithBaseURL(config.Clients.BrokerLink.BaseURL),
		brokerlink.WithRateLimit(config.Clients.BrokerLink.RateLimit),
		brokerlink.WithTimeout(config.Clients.BrokerLink.GetTimeout()),
		brokerlink.WithLogger(logger),
	)

	modelSvc := model.NewService(storage, logger)
	rebalanceSvc := rebalance.NewService(storage, brokerage, config.Rebalance.Threshold, logger)

	srv := server.NewServer(config, logger, modelSvc, rebalanceSvc, brokerage)

	shutdownChan := make(chan struct{}, 1)
	srv.SetShutdownChannel(shutdownChan)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready")

	// Wait for interrupt signal or HTTP-requested shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info().Msg("Shutdown signal received")
	case <-shutdownChan:
		logger.Info().Msg("Shutdown requested via API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	common.PrintShutdownBanner(logger)
}
