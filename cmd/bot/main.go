// shiftbot - Telegram work-time tracking bot
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/averin/shiftbot/internal/bot"
	"github.com/averin/shiftbot/internal/config"
	"github.com/averin/shiftbot/internal/health"
	"github.com/averin/shiftbot/internal/punch"
	"github.com/averin/shiftbot/internal/report"
	"github.com/averin/shiftbot/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("Failed to authorize bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot authorized", "username", api.Self.UserName)

	// Initialize services.
	punchSvc := punch.NewService(repo)
	picker := report.NewPicker(cfg.SelectionTTL)
	generator := report.NewGenerator(repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	picker.StartSweeper(ctx)

	healthHandler := health.NewHandler(repo)
	health.Serve(ctx, ":"+cfg.HealthPort, healthHandler.Router())

	b := bot.New(api, repo, punchSvc, picker, generator, cfg.PollTimeout)

	slog.Info("Starting update loop", "poll_timeout", cfg.PollTimeout)
	b.Run(ctx)

	slog.Info("Bot stopped")
}
