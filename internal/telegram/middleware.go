package telegram

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/logger"
)

// Recover catches panics in handlers so a single bad update cannot
// take the bot down.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(BuildContext(c), "tg", "panic",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// Logging builds the per-update context, sets the correlation id and
// logs a single receipt line per update.
func Logging(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		ctx := logger.WithRID(logger.WithUpdateMeta(nil, upd.ID, userID, chatID), rid)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		StoreContext(c, ctx)

		attrs := []slog.Attr{}
		switch {
		case upd.Callback != nil:
			key, payload := ParseCallbackData(upd.Callback)
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
			if payload != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
			}
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.Debug(ctx, "tg", "update.received", attrs...)

		start := time.Now()
		err := next(c)
		attrs = append(attrs, slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()))
		if err != nil {
			attrs = append(attrs, slog.String("status", "fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
			logger.Error(ctx, "tg", "update.handled", attrs...)
			return err
		}
		logger.Info(ctx, "tg", "update.handled", append(attrs, slog.String("status", "ok"))...)
		return nil
	}
}

// AdminOptions defines how admin-only checks behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnly ensures that only the configured administrator can invoke
// downstream handlers. Other callers get the reject response; no state
// is touched on their behalf.
func AdminOnly(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if opts.AdminID == 0 || sender == nil || sender.ID != opts.AdminID {
				if sender != nil {
					logger.Warn(BuildContext(c), "tg", "admin.rejected",
						slog.Int64("user_id", sender.ID),
					)
				}
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// RateLimitOptions configures the per-user rate limit.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// RateLimit enforces a minimum interval between updates from the same
// user.
func RateLimit(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		lastSeen   = make(map[int64]time.Time)
		lastSeenMu sync.Mutex
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			upd := c.Update()
			kind := "other"
			switch {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil:
				kind = "message"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			now := time.Now()
			lastSeenMu.Lock()
			if last, ok := lastSeen[user.ID]; ok && now.Sub(last) < opts.Interval {
				lastSeenMu.Unlock()
				logger.Warn(BuildContext(c), "tg", "rate_limited",
					slog.Int64("user_id", user.ID),
				)
				if opts.OnLimited != nil {
					_ = opts.OnLimited(c)
				}
				return nil
			}
			lastSeen[user.ID] = now
			lastSeenMu.Unlock()
			return next(c)
		}
	}
}

// Chain wraps a handler with the shared Recover and Logging middleware
// applied to every route.
func Chain(h tele.HandlerFunc) tele.HandlerFunc {
	return Recover(Logging(h))
}
