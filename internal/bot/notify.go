package bot

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/booking"
	"tourbot/internal/logger"
)

// notifyAdmin sends the administrator the review summary and a copy of
// the receipt artifact. Both sends go through the async dispatcher:
// the user's state transition is already persisted, so a transport
// failure here is logged and swallowed, never rolled back or reported
// to the user.
func (a *App) notifyAdmin(ctx context.Context, rec booking.Record, sender *tele.User) {
	if a.bot == nil || a.disp == nil {
		return
	}
	adminChat := tele.ChatID(a.cfg.Telegram.AdminID)

	username := ""
	if sender != nil {
		username = sender.Username
	}
	summary := adminNotifyText(rec, username)
	caption := "Чек от @" + orNone(username)

	enqueue := func(action string, run func() error) {
		if err := a.disp.Enqueue(ctx, action, run); err != nil {
			logger.Error(ctx, "bot", "admin_notify_enqueue_failed",
				slog.String("action", action),
				slog.Int64("target_user_id", rec.UserID),
				slog.String("err", err.Error()),
			)
		}
	}

	enqueue("admin.notify", func() error {
		_, err := a.bot.Send(adminChat, summary, tele.ModeMarkdown)
		return err
	})

	switch rec.ReceiptKind {
	case booking.ReceiptPhoto:
		enqueue("admin.receipt_photo", func() error {
			photo := &tele.Photo{File: tele.File{FileID: rec.ReceiptFileID}, Caption: caption}
			_, err := a.bot.Send(adminChat, photo)
			return err
		})
	case booking.ReceiptDocument:
		enqueue("admin.receipt_document", func() error {
			doc := &tele.Document{File: tele.File{FileID: rec.ReceiptFileID}, Caption: caption}
			_, err := a.bot.Send(adminChat, doc)
			return err
		})
	}
}

func orNone(username string) string {
	if username == "" {
		return "не указан"
	}
	return username
}
