// cmd/transvolt/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sidd707/transvolt-webapp/internal/alerting"
	"github.com/sidd707/transvolt-webapp/internal/api"
	"github.com/sidd707/transvolt-webapp/internal/auth"
	"github.com/sidd707/transvolt-webapp/internal/config"
	"github.com/sidd707/transvolt-webapp/internal/storage"
	"github.com/sidd707/transvolt-webapp/internal/websocket"
)

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := config.LoadConfig(*configPath); err != nil {
		logger.Warn("loading config, continuing with defaults", zap.Error(err))
	}
	cfg := &config.AppConfig

	accelLog := storage.NewAccelLog(cfg.Paths.AccelLog)
	store := storage.NewMemoryStore()
	hub := websocket.NewHub(logger)
	alerter := alerting.NewAlerter(accelLog, store, hub, logger)
	authManager := auth.NewManager(cfg.Auth.APIKeys)

	handler, err := api.NewHandler(cfg.Paths.DataCSV, accelLog, store, hub, alerter, cfg.Paths.WebDir, logger)
	if err != nil {
		logger.Fatal("initializing handler", zap.Error(err))
	}

	go hub.Run()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, authManager),
	}

	go func() {
		logger.Info("starting dashboard server",
			zap.Int("port", cfg.Server.Port),
			zap.String("data_csv", cfg.Paths.DataCSV),
			zap.String("accel_log", cfg.Paths.AccelLog))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
