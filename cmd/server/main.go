// Package main initializes and starts the BachesApp HTTP server,
// setting up configuration, logging, the snapshot stores, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/bachesapp/bachesapp/internal/config"
	"github.com/bachesapp/bachesapp/internal/logger"
	"github.com/bachesapp/bachesapp/internal/repository"
	"github.com/bachesapp/bachesapp/internal/server/handler/http"
	"github.com/bachesapp/bachesapp/internal/service"
	"github.com/bachesapp/bachesapp/internal/snapshot"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Open the durable snapshot store; the ephemeral session tier
	// lives in memory and dies with the process.
	durable, err := snapshot.OpenBadger(options.DataDir, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot open snapshot store", zap.Error(err))
	}
	defer func() { _ = durable.Close() }()
	ephemeral := snapshot.NewMemStore()

	// Initialize the identity and reset-token collections.
	creds := repository.NewCredentialStore(durable, zapLogger)
	if err := creds.Load(); err != nil {
		zapLogger.Fatal("cannot load identities", zap.Error(err))
	}
	tokens := repository.NewResetTokenRegistry(creds, durable, zapLogger)
	if err := tokens.Load(); err != nil {
		zapLogger.Fatal("cannot load reset tokens", zap.Error(err))
	}

	// Sweep expired reset tokens in the background.
	repository.StartExpiredTokenCleaner(context.Background(), tokens,
		10*time.Minute, zapLogger)

	// Initialize business-logic services.
	notifier := &service.LogNotifier{Log: zapLogger, BaseURL: "http://" + options.Port}
	authManager := service.NewAuthManager(creds, tokens, notifier,
		durable, ephemeral, nil, zapLogger)
	if err := authManager.Load(); err != nil {
		zapLogger.Fatal("cannot load session", zap.Error(err))
	}
	reportStore := service.NewReportStore(durable, options.SeedReports, zapLogger)
	if err := reportStore.Load(); err != nil {
		zapLogger.Fatal("cannot load reports", zap.Error(err))
	}

	// Create HTTP handlers for auth and report endpoints.
	authHandler := http.NewAuthHandler(authManager)
	reportHandler := http.NewReportHandler(reportStore, authManager)

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, reportHandler, authManager, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
