package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"garment-cost/adapters/rates"
	"garment-cost/adapters/sheet"
	"garment-cost/api"
	"garment-cost/internal/config"
	"garment-cost/internal/logging"
	"garment-cost/internal/store"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.Fatal("load config", zap.Error(err))
	}
	cfg.ApplyEnv()
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Costing sheet defaults
	sheetProvider := sheet.NewProvider(cfg.Sheet.Path)
	if err := sheetProvider.Reload(); err != nil {
		if !cfg.Sheet.Fallback {
			logging.Fatal("load costing sheet", zap.Error(err))
		}
		sheetProvider.UseFallback()
	}
	if cfg.Sheet.Watch {
		if err := sheetProvider.Watch(ctx); err != nil {
			logging.Warn("sheet watcher unavailable", zap.Error(err))
		}
	}

	// Exchange rates
	rateProvider := rates.NewProvider(rates.NewClient(cfg.Rates.URL,
		time.Duration(cfg.Rates.TimeoutSeconds)*time.Second))
	if cfg.Rates.URL != "" {
		if err := rateProvider.Refresh(ctx); err != nil {
			logging.Warn("initial rate fetch failed, serving fallback rates", zap.Error(err))
		}
		if err := rateProvider.Start(ctx, cfg.Rates.RefreshSchedule); err != nil {
			logging.Fatal("schedule rate refresh", zap.Error(err))
		}
		defer rateProvider.Stop()
	}

	// Calculation history
	var history api.History
	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			logging.Fatal("open history store", zap.Error(err))
		}
		defer s.Close()
		history = s
	}

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewServer(api.Options{
			Version:        version,
			Development:    cfg.Server.Development,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, sheetProvider, rateProvider, history),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown", zap.Error(err))
	}
}
