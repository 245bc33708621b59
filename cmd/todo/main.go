package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dunamismax/hypermedia/internal/app"
	"github.com/dunamismax/hypermedia/internal/config"
	"github.com/dunamismax/hypermedia/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config loaded, connecting to Postgres",
		zap.String("env", cfg.App.Env),
		zap.Bool("redis", cfg.Redis.Enabled()),
	)

	application, err := app.New(cfg, app.KindTodo, log)
	if err != nil {
		log.Fatal("app init", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Serve(ctx); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
