package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/config"
	"github.com/example/curemart/internal/handlers"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/otp"
	"github.com/example/curemart/internal/routes"
	"github.com/example/curemart/internal/storage"
)

func main() {
	cfg := config.Load()

	zlog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()
	sugar := zlog.Sugar()

	store, err := storage.Open(cfg, sugar)
	if err != nil {
		sugar.Fatalf("storage open error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := notify.NewBus(sugar)
	dispatcher := notify.NewDispatcher(buildEmailSender(cfg, sugar), buildSMSSender(cfg),
		notify.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, sugar), sugar)
	go bus.Run(ctx, dispatcher)

	otp.NewService(store, bus, sugar).StartSweeper(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "CureMart Backend",
		ErrorHandler: handlers.NewErrorHandler(sugar, cfg.Production()),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, store, cfg, bus, sugar)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		sugar.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			sugar.Errorf("fiber.Shutdown error: %v", err)
		}
	}()

	sugar.Infof("starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		sugar.Fatalf("fiber.Listen error: %v", err)
	}

	// Let the notification worker finish in-flight sends before exiting.
	cancel()
	bus.Wait()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func buildEmailSender(cfg *config.Config, log *zap.SugaredLogger) notify.EmailSender {
	sender, err := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderEmail, log)
	if err != nil {
		log.Warnf("email disabled: %v", err)
		return nil
	}
	return sender
}

func buildSMSSender(cfg *config.Config) notify.SMSSender {
	if !cfg.SMSEnabled || cfg.SMSBaseURL == "" {
		return nil
	}
	return notify.NewSMSClient(cfg.SMSBaseURL, cfg.SMSUsername, cfg.SMSPassword)
}
