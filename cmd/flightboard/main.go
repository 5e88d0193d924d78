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

	"github.com/yegors/flightboard/internal/api"
	"github.com/yegors/flightboard/internal/board"
	"github.com/yegors/flightboard/internal/cache"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/internal/flightaware"
	"github.com/yegors/flightboard/internal/trmnl"
	"github.com/yegors/flightboard/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file (optional, environment wins)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	fetcher := flightaware.NewClient(cfg.FlightAware.BaseURL, cfg.FlightAware.APIKey, cfg.FetchTimeout(), log)
	store := cache.NewStore(cfg.Station.DataPath, log)
	formatter := trmnl.NewFormatter(log)
	pusher := trmnl.NewClient(cfg.TRMNL.WebhookURL, cfg.PushTimeout(), log)
	service := board.NewService(cfg, fetcher, store, formatter, pusher, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Enabled {
		router := api.NewRouter(service, cfg, log)
		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: router.Routes(),
		}
		go func() {
			log.Info("Status API listening", logger.String("addr", cfg.Server.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Status API failed", logger.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()
	}

	service.Run(ctx)
	log.Info("Shutting down")
}
