// Package main contains the entrypoint for the WhatsApp customer service bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wabot/internal/bot"
	"wabot/internal/config"
	"wabot/internal/database"
	"wabot/internal/gemini"
	"wabot/internal/knowledge"
	"wabot/internal/ledger"
	"wabot/internal/logger"
	"wabot/internal/ratelimit"
	"wabot/internal/whatsapp"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, reference
// tables, AI client, WhatsApp client, router), starts the bot, handles
// graceful shutdown, and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	kb, err := knowledge.Load(cfg.Data.KnowledgePath, cfg.Data.FAQPath, log)
	if err != nil {
		log.Error("Failed to load reference tables", "error", err)
		return 1
	}

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	wa, err := whatsapp.NewClient(cfg.WhatsApp, log)
	if err != nil {
		log.Error("Failed to create WhatsApp client", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.Max)
	orders := ledger.New(store, log)
	router := bot.NewRouter(cfg, log, store, kb, limiter, gemClient, orders, wa, sched)
	app := bot.NewBot(log, wa, router, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
