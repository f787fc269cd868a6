// Package main is the entry point for the contractops API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contractops/internal/core/clock"
	"contractops/internal/core/codegen"
	"contractops/internal/domain/client"
	"contractops/internal/domain/operation"
	"contractops/internal/domain/reports"
	v1 "contractops/internal/infrastructure/http/v1"
	"contractops/internal/infrastructure/storage/memory"
	"contractops/pkg/logger"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Load .env if present; real environment takes precedence.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("starting contractops server")

	clk := clock.System{}

	// --- Storage ---
	clientRepo := memory.NewClientRepo()
	operationRepo := memory.NewOperationRepo()

	// --- Services ---
	clientService := client.NewService(clientRepo, clk)
	operationService := operation.NewService(operationRepo, clientRepo, codegen.New(clk), clk)
	reportsService := reports.NewService(operationRepo, clientRepo, clk)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:     log,
		Clock:      clk,
		Version:    version,
		Clients:    clientService,
		Operations: operationService,
		Reports:    reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
