package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"

	"github.com/playoffpurge/playoffpurge/internal/api/fanduel"
	"github.com/playoffpurge/playoffpurge/internal/api/sheets"
	"github.com/playoffpurge/playoffpurge/internal/bot"
	"github.com/playoffpurge/playoffpurge/internal/config"
	"github.com/playoffpurge/playoffpurge/internal/repository/cache"
	"github.com/playoffpurge/playoffpurge/internal/scheduler"
	"github.com/playoffpurge/playoffpurge/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.Info("Starting", "app", cfg.AppTitle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.New()

	sheetsClient, err := sheets.New(ctx, cfg.Sheets, clk)
	if err != nil {
		return err
	}

	store := cache.New(clk, time.Duration(cfg.Sheets.CacheTTLSeconds)*time.Second)
	svc := service.New(sheetsClient, store, cfg.Draft, clk)

	var sendMessage func(string) error
	if cfg.Telegram.Token != "" {
		telegramBot, err := bot.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.ChatID, svc, fanduel.New(store))
		if err != nil {
			return err
		}
		sendMessage = telegramBot.SendMessage

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	} else {
		slog.Info("No telegram token configured, running without chat")
	}

	sched, err := scheduler.New(svc, cfg.Draft.RefreshSchedule, sendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/health", healthHandler(svc))

	go func() {
		if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := svc.GetLeagueMeta(r.Context(), true)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"league": meta.LeagueName,
			"week":   meta.CurrentWeek,
		})
	}
}
