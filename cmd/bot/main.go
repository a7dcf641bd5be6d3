package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/medcourse-bot/internal/config"
	"github.com/aliskhannn/medcourse-bot/internal/content"
	"github.com/aliskhannn/medcourse-bot/internal/delivery/telegram"
	"github.com/aliskhannn/medcourse-bot/internal/httpserver"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/medcourse-bot/internal/logger"
	"github.com/aliskhannn/medcourse-bot/internal/service"
	"github.com/aliskhannn/medcourse-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(finish(lg, run(cfg, lg)))
}

// finish logs the outcome of run and flushes the logger before the process exits.
func finish(lg *zap.Logger, err error) int {
	code := 0
	if err != nil {
		lg.Error("bot stopped with error", zap.Error(err))
		code = 1
	}
	_ = lg.Sync()
	return code
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	location, err := cfg.Scheduler.Location()
	if err != nil {
		return err
	}
	defaultSign, err := cfg.Digest.Sign()
	if err != nil {
		return err
	}

	// Database.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.WaitReady(ctx, pool, cfg.DB.ConnectAttempts, lg); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, pool, lg); err != nil {
		return err
	}

	// Repositories and services.
	regimenRepo := repository.NewRegimenRepository(pool, postgres.NewTransactor(pool))
	settingsRepo := repository.NewSettingsRepository(pool)

	regimenService := service.NewRegimenService(regimenRepo, lg.Named("regimens"))
	settingsService := service.NewSettingsService(settingsRepo)

	// Telegram.
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	notifier := telegram.NewNotifier(bot, lg.Named("notifier"))
	sessions := storage.NewSessionStorage[*telegram.FormSession]()
	handler := telegram.NewHandler(bot, lg.Named("telegram"), regimenService, settingsService, sessions, location)

	// Schedulers.
	evaluator := service.NewReminderEvaluator(regimenRepo, notifier, service.ReminderConfig{
		Location:       location,
		Spec:           cfg.Scheduler.SweepSpec,
		Tolerance:      cfg.Scheduler.Tolerance,
		RegimenTimeout: cfg.Scheduler.RegimenTimeout,
		MaxConcurrent:  cfg.Scheduler.MaxConcurrent,
	}, lg.Named("reminders"))

	provider := content.NewProvider(content.Config{
		WeatherURL:    cfg.Content.WeatherURL,
		WeatherAPIKey: cfg.Content.WeatherAPIKey,
		FiatURL:       cfg.Content.FiatURL,
		CryptoURL:     cfg.Content.CryptoURL,
		HoroscopeURL:  cfg.Content.HoroscopeURL,
		Timeout:       cfg.Content.Timeout,
		Retries:       cfg.Content.Retries,
	}, lg.Named("content"))

	digest := service.NewDigestScheduler(regimenRepo, settingsRepo, provider, notifier, service.DigestConfig{
		Location:      location,
		Time:          cfg.Digest.Time,
		Cities:        cfg.Digest.WeatherCities,
		DefaultSign:   defaultSign,
		MaxConcurrent: cfg.Digest.MaxConcurrent,
		SendTimeout:   cfg.Digest.SendTimeout,
	}, lg.Named("digest"))

	ops := httpserver.New(cfg.HTTP.Addr, pool, evaluator, digest, lg.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(gctx) })
	g.Go(func() error { return evaluator.Start(gctx) })
	g.Go(func() error { return digest.Start(gctx) })
	g.Go(func() error { return ops.Run(gctx) })

	err = g.Wait()
	lg.Info("shutdown signal received")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
