package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/notify"
	"blog/internal/server"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	var notifier notify.Notifier
	if cfg.SendGridAPIKey != "" {
		notifier = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom, logger)
	} else {
		logger.Info("SENDGRID_API_KEY not set, notifications are logged only")
		notifier = notify.NewLogNotifier(logger)
	}

	srv, err := server.New(database, notifier, logger, cfg)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}
	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}
