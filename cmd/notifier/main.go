// Command notifier announces the alert bot in the configured Telegram chat:
// a welcome message at start, a test alert shortly after, then a heartbeat
// log line every few minutes until interrupted.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-cat-service/internal/config"
	"github.com/tbourn/go-cat-service/internal/notify"
	"github.com/tbourn/go-cat-service/internal/sysutil"
)

const (
	testAlertDelay    = 5 * time.Second
	heartbeatInterval = 5 * time.Minute
)

// sender is the subset of notify.Telegram the loop needs.
type sender interface {
	Send(ctx context.Context, text string, markdown bool) error
	WelcomeMessage(now time.Time) string
	TestMessage(now time.Time) string
}

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	log := sysutil.ConfigureLogger(os.Stdout, cfg.LogPretty, "cat-notifier")

	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, notify.NewTelegram(cfg.Telegram), log, testAlertDelay, heartbeatInterval); err != nil {
		log.Fatal().Err(err).Msg("notifier failed")
	}
	log.Info().Msg("notifier stopped")
}

// run returns nil once ctx is canceled. Only a failed welcome message is
// fatal; a failed test alert is logged.
func run(ctx context.Context, tg sender, log zerolog.Logger, delay, every time.Duration) error {
	if err := tg.Send(ctx, tg.WelcomeMessage(time.Now()), false); err != nil {
		return err
	}
	log.Info().Msg("welcome message sent")

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(delay):
	}
	if err := tg.Send(ctx, tg.TestMessage(time.Now()), false); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("test alert failed")
	} else if err == nil {
		log.Info().Msg("test alert sent")
	}

	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-tick.C:
			log.Info().Time("at", t).Msg("notifier alive")
		}
	}
}
