package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/panscim/panscim/internal/club"
	"github.com/panscim/panscim/internal/logger"
	"github.com/panscim/panscim/internal/storage"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		panic("no .env file found")
	}

	logger.Initialize(logger.Configuration{
		LogFile:   os.Getenv("LOG_FILE"),
		ErrorFile: os.Getenv("ERROR_LOG_FILE"),
		Level:     getenv("LOG_LEVEL", "debug"),
		Console:   true,
	})

	store := storage.NewSqliteStorage(getenv("DB_PATH", "club.db"))
	engine := club.NewEngine(store)

	dispatcher := club.NewDispatcher(store, newSender(os.Getenv("NOTIFY_WEBHOOK_URL")))
	go dispatcher.Run(ctx, getenvDuration("DISPATCH_INTERVAL", 15*time.Second))

	go closeLoop(ctx, engine, getenvDuration("CLOSE_CHECK_INTERVAL", time.Minute))

	logger.Info("clubd started")

	<-waitForInterrupt()
	logger.Info("interrupt received, stopping")
	cancel()
}

// closeLoop watches for the month boundary and finalizes the period that
// just ended. It only fires when a tick observes the period change, so a
// process started mid-month never mislabels live points as a past period;
// a boundary missed while down is handled by triggering CloseMonth manually.
// The close itself is idempotent, so a duplicate trigger is harmless.
func closeLoop(ctx context.Context, engine *club.Engine, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	open := club.MonthYear(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			if club.MonthYear(now) == open {
				continue
			}

			previous := club.PreviousMonthYear(now)
			_, err := engine.CloseMonth(previous, now)
			if err != nil && !errors.Is(err, club.ErrResetAlreadyPerformed) {
				logger.Error("monthly close failed", zap.String("monthYear", previous), zap.Error(err))
				continue
			}

			open = club.MonthYear(now)
			if err == nil {
				logger.Info("monthly close performed", zap.String("monthYear", previous))
			}
		}
	}
}

func getenv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
