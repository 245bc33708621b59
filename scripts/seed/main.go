// One-off: go run ./scripts/seed [n]
// Fills an empty todos table with sample items.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dunamismax/hypermedia/internal/config"
	"github.com/dunamismax/hypermedia/internal/logging"
	"github.com/dunamismax/hypermedia/internal/repo"
	"github.com/dunamismax/hypermedia/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var samples = []string{
	"Buy milk",
	"Water the plants",
	"Read the htmx docs",
	"Book dentist appointment",
	"Clean up the downloads folder",
}

func main() {
	n := len(samples)
	if len(os.Args) > 1 {
		v, err := strconv.Atoi(os.Args[1])
		if err != nil || v < 0 {
			fmt.Fprintf(os.Stderr, "usage: seed [count]\n")
			os.Exit(2)
		}
		n = v
	}

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

	if err := migrations.Up(cfg.PG.DSN, migrations.Todo); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PG.DSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pool.Close()

	todos := repo.NewPGTodoRepo(pool)
	existing, err := todos.List(ctx)
	if err != nil {
		log.Fatal("list todos", zap.Error(err))
	}
	if len(existing) > 0 {
		log.Info("todos table not empty, nothing to do", zap.Int("count", len(existing)))
		return
	}

	for i := 0; i < n; i++ {
		content := samples[i%len(samples)]
		if i >= len(samples) {
			content = fmt.Sprintf("%s (%d)", content, i/len(samples)+1)
		}
		t, err := todos.Create(ctx, content)
		if err != nil {
			log.Fatal("create todo", zap.Error(err))
		}
		log.Debug("created", zap.Int64("id", t.ID), zap.String("content", t.Content))
	}
	log.Info("seeded todos", zap.Int("count", n))
}
