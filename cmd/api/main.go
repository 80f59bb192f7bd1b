// Command api starts the taskdeck HTTP server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskdeck.dev/internal/auth"
	"taskdeck.dev/internal/config"
	"taskdeck.dev/internal/httpapi"
	"taskdeck.dev/internal/migrate"
	"taskdeck.dev/internal/obs"
	"taskdeck.dev/internal/store"
	"taskdeck.dev/internal/store/memory"
	"taskdeck.dev/internal/store/pg"
	"taskdeck.dev/internal/stream"
	"taskdeck.dev/internal/task"
)

var version = "0.3.1"

func main() {
	configPath := flag.String("config", "", "path to TOML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := obs.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer obs.Sync()
	obs.Init()

	logger := obs.Logger()

	var (
		st    store.Store
		probe httpapi.ReadyProbe
	)
	if cfg.DatabaseDSN != "" {
		pgStore, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("open store", zap.Error(err))
		}
		defer pgStore.Close()
		if cfg.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := migrate.Up(ctx, pgStore.DB()); err != nil {
				cancel()
				logger.Fatal("migrate up", zap.Error(err))
			}
			cancel()
		}
		st = pgStore
		probe = httpapi.ReadyProbe{Store: pgStore}
	} else {
		logger.Warn("no database DSN configured, using in-memory store")
		st = memory.New()
	}

	codec, err := auth.NewCodec(cfg.AuthSecret, auth.WithTTL(cfg.TokenTTL))
	if err != nil {
		logger.Fatal("token codec", zap.Error(err))
	}

	authSvc := auth.NewService(st.Users(), codec)
	taskSvc := task.NewService(st.Tasks())
	events := stream.New()

	api := httpapi.New(probe, version, authSvc, taskSvc, events,
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSecond),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting taskdeck-api",
		zap.String("version", version),
		zap.String("addr", srv.Addr),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("stopped")
}
