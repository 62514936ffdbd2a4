package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"wellness-chatter/internal/app"
	"wellness-chatter/internal/config"
	"wellness-chatter/internal/consent"
	"wellness-chatter/internal/scheduler"
	"wellness-chatter/internal/storage"
	"wellness-chatter/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn(".env file not found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	logs := app.NewLogging(cfg)
	logger := logs.ForComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.New(ctx, cfg, logs)
	if err != nil {
		logger.Fatal("failed to wire core", "err", err)
	}
	defer core.Close()

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			logger.Error("failed to init file recorder", "err", err)
		} else {
			rec = fr
		}
	}

	var consentRepo consent.Repository
	if cfg.ConsentFilePath != "" {
		repo, err := consent.NewFileRepository(cfg.ConsentFilePath)
		if err != nil {
			logger.Error("failed to init consent repo, consent kept in memory", "err", err)
		} else {
			consentRepo = repo
		}
	}
	consents, err := consent.NewWithRepo(consentRepo)
	if err != nil {
		logger.Fatal("failed to load consent records", "err", err)
	}

	bot, err := telegram.New(cfg.TelegramBotToken, telegram.Deps{
		Router:           core.Router,
		Screen:           core.Screen,
		Reflection:       core.Reflection,
		Guides:           core.Retriever,
		Consent:          consents,
		Recorder:         rec,
		Logger:           logs.ForComponent("telegram"),
		AdminUserID:      cfg.AdminUserID,
		AllowedUsers:     cfg.AllowedUsers,
		MemorySize:       cfg.MemorySize,
		StoreTranscripts: cfg.StoreTranscripts,
	})
	if err != nil {
		logger.Fatal("failed to create bot", "err", err)
	}

	sched := scheduler.New(cfg.ReportSchedule, logs.ForComponent("scheduler"))
	if cfg.AdminUserID != 0 && rec != nil {
		sched.SetReportFunction(bot.SendDailyReport)
	}
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "err", err)
	}
	defer sched.Stop()

	bot.Start(ctx)
	logger.Info("shutting down")
}
