package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"

	"dashboard/internal/api"
	"dashboard/internal/config"
	"dashboard/internal/engine"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lvl, _ := config.ParseLogLevel(cfg.LogLevel)
	log.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Load the dataset before anything listens. A failed load ends the process.
	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	ds, err := engine.Load(loadCtx, cfg.DataSource)
	cancel()
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}

	// 3. Serve
	e := api.NewServer(ds, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		LogLevel:    lvl,
	})

	go func() {
		log.Infof("Server ready on %s (%d customers)", cfg.Addr, ds.Len())
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
