package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/config"
	"tourbot/internal/logger"
)

// Middleware describes a global bot middleware registered via bot.Use.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// Route declares a single bot handler bound to an endpoint; endpoint
// values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *Dispatcher
	Registry   *Registry
}

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Config   *config.Config
	Registry *Registry

	SenderOptions SenderOptions

	Middlewares []Middleware
	Routes      []Route

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Run composes and runs the Telegram bot until ctx is done.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(),
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}

	if _, ok := poller.(*tele.Webhook); ok {
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", "webhook"),
			slog.String("public_url", cfg.Webhook.URL),
		)
	} else {
		logger.Info(ctx, "tg", "mode", slog.String("mode", "polling"))
		// A lingering webhook blocks long polling, and pending updates
		// from downtime would replay stale button presses.
		if err := deleteWebhook(cfg.Telegram.Token, true); err != nil {
			logger.Warn(ctx, "tg", "delete_webhook_failed", slog.String("err", err.Error()))
		}
	}

	dispatcher := NewDispatcher(opts.SenderOptions)
	rt := Runtime{Bot: bot, Dispatcher: dispatcher, Registry: reg}

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}

	if err := bot.SetCommands(reg.ListCommands(true)); err != nil {
		logger.Warn(ctx, "tg", "set_commands_failed", slog.String("err", err.Error()))
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			dispatcher.Close()
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(ctx, rt)
	}

	dispatcher.Close()

	if stopErr != nil {
		return stopErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func deleteWebhook(token string, dropPending bool) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/deleteWebhook", token)
	body := "drop_pending_updates=false"
	if dropPending {
		body = "drop_pending_updates=true"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleteWebhook status: %s", resp.Status)
	}
	return nil
}
