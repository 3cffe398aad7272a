// cmd/filegate/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"filegate/internal/access"
	"filegate/internal/bot"
	"filegate/internal/common/config"
	"filegate/internal/common/database"
	"filegate/internal/common/logger"
	"filegate/internal/lease"
	"filegate/internal/models"
	"filegate/internal/oracle"
	"filegate/internal/shortener"
	"filegate/internal/store"
	"filegate/internal/sweeper"
	"filegate/internal/transport"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting filegate",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	// --- Telegram ---
	var api *tgbotapi.BotAPI
	err = retryWithBackoff(func() error {
		var err error
		api, err = tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		return err
	}, 5, 2*time.Second, zapLog, "Telegram connection")
	if err != nil {
		zapLog.Fatal("telegram failed after retries", zap.Error(err))
	}
	zapLog.Info("Telegram connected", zap.String("username", api.Self.UserName))

	tr := transport.NewTelegram(api, log)

	// --- Wiring ---
	clock := models.RealClock{}
	ids := models.UUIDGenerator{}

	grants := store.NewGrantStore(rdb.GetClient())
	leases := store.NewLeaseStore(rdb.GetClient())

	issuer := access.NewIssuer(grants, clock, ids, log)
	orc := oracle.New(tr, cfg.Telegram.ForceSubChannel, log)
	authorizer := access.NewAuthorizer(orc, issuer, cfg.Telegram.IsOwner, log)

	origin := lease.NewArchiveOrigin(tr, cfg.Telegram.ArchiveChannelID)
	registry := lease.NewRegistry(leases, origin, cfg.Access.LeaseDuration(), clock, ids, log)

	sw := sweeper.New(leases, tr, cfg.Telegram.ArchiveChannelID, cfg.Access.ReclaimGrace(), log)
	runner := sweeper.NewRunner(sw, cfg.Access.SweepInterval(), clock, log)
	go runner.Run(ctx)

	sh := shortener.NewClient(cfg.Shortener, log)
	handler := bot.NewHandler(cfg, tr, authorizer, issuer, grants, registry, sh, api.Self.UserName, log)

	// --- Metrics endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// --- Update loop ---
	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.PollTimeout

	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		zapLog.Fatal("failed to start update polling", zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	zapLog.Info("filegate running")
	for {
		select {
		case sig := <-sigCh:
			zapLog.Info("shutting down", zap.String("signal", sig.String()))
			cancel()
			api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				zapLog.Info("update channel closed")
				return
			}
			handler.HandleUpdate(ctx, upd)
		}
	}
}
