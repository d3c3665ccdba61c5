package telegram

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/logger"
)

const contextKey = "logger_ctx"

// StoreContext attaches a reusable context to tele.Context for
// downstream helpers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom returns the context previously stored by middleware.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	if ctx, ok := c.Get(contextKey).(context.Context); ok {
		return ctx, true
	}
	return nil, false
}

// BuildContext constructs a context.Context from tele.Context,
// enriched with rid and update/user/chat metadata so every layer logs
// with the same correlation fields.
func BuildContext(c tele.Context) context.Context {
	if cached, ok := ContextFrom(c); ok {
		return cached
	}

	upd := c.Update()
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}

	ctx := context.Background()
	ctx = logger.WithRID(ctx, rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}
