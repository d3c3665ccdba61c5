package bot

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/booking"
	"tourbot/internal/logger"
	"tourbot/internal/telegram"
)

// onAdminConfirm handles /confirm <user_id>: the only path that moves
// a booking into the confirmed state. Repeating the command for an
// already processed booking reports the benign outcome instead of
// double-confirming.
func (a *App) onAdminConfirm(c tele.Context) error {
	ctx := telegram.BuildContext(c)

	args := strings.Fields(c.Message().Payload)
	if len(args) == 0 {
		return c.Send(textConfirmUsage)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send(textBadUserID)
	}

	rec, err := a.svc.Approve(ctx, userID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.Send(textNotFound)
		}
		return err
	}

	logger.Info(ctx, "admin", "booking.approved",
		slog.Int64("target_user_id", userID),
		slog.String("direction", rec.Direction),
		slog.String("date", rec.Date),
	)

	if _, err := a.bot.Send(tele.ChatID(userID), userConfirmedText(rec), tele.ModeMarkdown); err != nil {
		logger.Error(ctx, "admin", "user_notify_failed",
			slog.Int64("target_user_id", userID),
			slog.String("err", err.Error()),
		)
		return c.Send("❌ Ошибка: " + err.Error())
	}
	return c.Send(textApprovedOK)
}

// onAdminList handles /list (alias /bookings): every stored record,
// grouped by status, confirmed history included.
func (a *App) onAdminList(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	entries, err := a.svc.List(ctx)
	if err != nil {
		return err
	}
	return c.Send(listText(entries), tele.ModeMarkdown)
}
