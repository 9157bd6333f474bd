// Package main is the entry point for the Direct Viewer server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oszuidwest/zwfm-directviewer/internal/api"
	"github.com/oszuidwest/zwfm-directviewer/internal/auth"
	"github.com/oszuidwest/zwfm-directviewer/internal/config"
	"github.com/oszuidwest/zwfm-directviewer/internal/credentials"
	"github.com/oszuidwest/zwfm-directviewer/internal/drive"
	"github.com/oszuidwest/zwfm-directviewer/internal/scheduler"
	"github.com/oszuidwest/zwfm-directviewer/internal/web"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
	"github.com/oszuidwest/zwfm-directviewer/pkg/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, !cfg.Environment.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Direct Viewer %s", version.String())
	logger.Info("Server config: Address=%s, Environment=%s", cfg.Server.Address, cfg.Environment)
	logger.Info("Credential store: %s", cfg.Credentials.Store)

	store, closeStore, err := credentials.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open credential store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close credential store: %v", err)
		}
	}()

	if pruner, ok := store.(credentials.Pruner); ok && cfg.CredentialRetention() > 0 {
		pruneService := scheduler.NewCredentialPruneService(pruner, cfg.CredentialRetention(), time.Hour)
		pruneService.Start()
		defer pruneService.Stop()
	}

	authConfig := auth.ConfigFrom(cfg)

	discoverCtx, cancelDiscover := context.WithTimeout(context.Background(), 30*time.Second)
	identity, endpoint, err := auth.DiscoverProvider(discoverCtx, authConfig.OAuth)
	cancelDiscover()
	if err != nil {
		logger.Fatal("Failed to discover identity provider: %v", err)
	}

	authService, err := auth.NewService(authConfig, identity, endpoint, store)
	if err != nil {
		logger.Fatal("Failed to create auth service: %v", err)
	}

	clients := drive.NewGoogleClientFactory(authService.OAuth2Config())
	router := api.SetupRouter(cfg, authService, clients, web.Public())

	// No write timeout: file streams are as long as the file.
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Starting Direct Viewer on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
