package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unalkalkan/txt2epub/internal/api"
	"github.com/unalkalkan/txt2epub/internal/book"
	"github.com/unalkalkan/txt2epub/internal/config"
	"github.com/unalkalkan/txt2epub/internal/health"
	"github.com/unalkalkan/txt2epub/internal/logging"
	"github.com/unalkalkan/txt2epub/internal/packaging"
	"github.com/unalkalkan/txt2epub/internal/storage"
)

// Version info (injected via ldflags)
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults plus T2E_ environment overrides when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging, os.Stdout)
	log.Info("Starting txt2epub server", "version", version, "config", *configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageAdapter, err := storage.NewAdapter(ctx, cfg.Storage)
	if err != nil {
		log.Error("Failed to create storage adapter", "error", err)
		os.Exit(1)
	}
	defer storageAdapter.Close()
	log.Info("Storage adapter initialized", "adapter", cfg.Storage.Adapter)

	bookRepo := book.NewRepository(storageAdapter)
	packager := packaging.NewService(bookRepo, log)

	healthHandler := health.NewHandler(version)
	healthHandler.Register("storage", health.StorageCheck(storageAdapter))
	log.Info("Health checks registered", "checks", healthHandler.Names())

	srv := api.NewServer(bookRepo, packager, healthHandler, cfg.Conversion, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		log.Error("Server error", "error", err)
		os.Exit(1)
	}

	log.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
