package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"birthday_bot/internal/app"
	"birthday_bot/internal/domain/birthday"
	"birthday_bot/internal/infra/config"
	"birthday_bot/internal/infra/logger"
	"birthday_bot/internal/infra/scheduler"
	"birthday_bot/internal/infra/storage"
	itelegram "birthday_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Birthday Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"file_path":   cfg.BirthdayFilePath,
	}).Info("Configuration loaded")

	// Initialize the record store.
	store := storage.NewFileStore(cfg.BirthdayFilePath, logger.Get().WithField("component", "storage"))

	// Surface (and back up) a corrupted birthday file at startup rather than
	// during the first sweep.
	if _, err := store.Read(context.Background()); err != nil {
		if errors.Is(err, birthday.ErrSnapshotCorrupted) {
			mainLogger.Warn("Birthday file was corrupted; a backup was written and the store starts empty")
		} else {
			mainLogger.WithError(err).Fatal("Could not read the birthday file")
		}
	}

	birthdayService := app.NewBirthdayService(store)
	mainLogger.Info("Birthday service initialized")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	announcementService := app.NewAnnouncementService(
		store,
		itelegram.NewTelebotAdapter(bot),
		logger.Get().WithField("component", "announcer"),
	)
	mainLogger.Info("Announcement service initialized")

	announcementScheduler := scheduler.NewAnnouncementScheduler(
		announcementService,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecSweep,
	)
	if err := announcementScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start announcement scheduler")
	}

	// Register Handlers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	itelegram.RegisterBirthdayHandlers(ctx, bot, birthdayService, cfg, logger.Get().WithField("component", "telegram"))
	itelegram.RegisterBotCommands(bot, logger.Get().WithField("component", "telegram"))
	mainLogger.Info("Command handlers registered")

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	cancel()
	announcementScheduler.Stop() // Lets a sweep in progress finish its transaction.
	bot.Stop()
	mainLogger.Info("Application shut down gracefully")
}
