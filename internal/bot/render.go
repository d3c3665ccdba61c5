// Package bot wires the booking service to the Telegram transport:
// command and callback handlers, message rendering and the out-of-band
// administrator notification.
package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/booking"
	"tourbot/internal/config"
	"tourbot/internal/telegram"
)

// Callback uniques for the inline menus.
const (
	cbDirection = "direction"
	cbTourType  = "tour_type"
	cbDate      = "date"
	cbBack      = "back"
	cbConfirm   = "confirm"
	cbCancel    = "cancel"
)

const (
	textCancelled = "❌ Бронирование отменено.\n\n" +
		"Все выбранные данные очищены.\n" +
		"Вы можете начать заново, отправив /start"
	textBadReceipt   = "❌ Пожалуйста, отправьте чек в виде фото или PDF файла."
	textWaitAdmin    = "⏳ Ожидайте подтверждения оплаты администратором."
	textReceiptTaken = "✅ Чек получен!\n\n⏳ Ожидайте подтверждения оплаты администратором."
	textNoBooking    = "У вас нет активного бронирования. Отправьте /start, чтобы начать."
	textUseButtons   = "Пожалуйста, используйте кнопки выше или отправьте /start, чтобы начать заново."
	textNotAdmin     = "❌ У вас нет прав администратора."
	textConfirmUsage = "Использование: /confirm <user_id>\n\n" +
		"Или используйте команду из уведомления о новой брони."
	textAlreadyConfirmed = "✅ Ваше бронирование уже подтверждено. Отправьте /start, чтобы оформить новое."
	textBadUserID        = "❌ Неверный формат ID пользователя."
	textNotFound         = "❌ Бронирование не найдено или уже обработано."
	textNoBookings       = "📭 Нет активных бронирований."
	textApprovedOK       = "✅ Бронирование подтверждено! Пользователь уведомлен."
	textStaleChoice      = "⚠️ Это меню устарело. Отправьте /start, чтобы начать заново."
)

func welcomeText(firstName string) string {
	return fmt.Sprintf(
		"Добро пожаловать, %s! 👋\n\nЯ помогу вам забронировать тур. Пожалуйста, выберите направление:",
		firstName,
	)
}

// prompt renders the menu for the record's current choice step. It is
// shared by forward transitions and back navigation so both always
// produce the same screen.
func prompt(rec booking.Record, catalog booking.Catalog) (string, *tele.ReplyMarkup) {
	switch rec.State {
	case booking.StateChoosingDirection:
		return "Выберите направление:", directionMenu(catalog)
	case booking.StateChoosingTourType:
		text := fmt.Sprintf("Направление: *%s*\n\nВыберите тип тура:", rec.DirectionName)
		return text, tourTypeMenu(catalog)
	case booking.StateChoosingDate:
		text := fmt.Sprintf("Тип тура: *%s*\n\nВыберите дату тура:", rec.TourTypeName)
		return text, dateMenu(catalog)
	case booking.StateConfirming:
		return summaryText(rec), confirmMenu()
	}
	return "", nil
}

func directionMenu(catalog booking.Catalog) *tele.ReplyMarkup {
	buttons := make([]telegram.InlineBtn, 0, len(catalog.Directions))
	for _, d := range catalog.Directions {
		buttons = append(buttons, telegram.InlineBtn{Text: d.Name, Unique: cbDirection, Data: d.Key})
	}
	return telegram.InlineButtons(buttons)
}

func tourTypeMenu(catalog booking.Catalog) *tele.ReplyMarkup {
	buttons := make([]telegram.InlineBtn, 0, len(catalog.TourTypes)+1)
	for _, t := range catalog.TourTypes {
		buttons = append(buttons, telegram.InlineBtn{
			Text:   fmt.Sprintf("%s - %s ₸", t.Name, formatPrice(t.Price)),
			Unique: cbTourType,
			Data:   t.Key,
		})
	}
	buttons = append(buttons, telegram.InlineBtn{Text: "◀️ Назад", Unique: cbBack})
	return telegram.InlineButtons(buttons)
}

func dateMenu(catalog booking.Catalog) *tele.ReplyMarkup {
	buttons := make([]telegram.InlineBtn, 0, len(catalog.Dates)+1)
	for _, d := range catalog.Dates {
		buttons = append(buttons, telegram.InlineBtn{Text: d, Unique: cbDate, Data: d})
	}
	buttons = append(buttons, telegram.InlineBtn{Text: "◀️ Назад", Unique: cbBack})
	return telegram.InlineButtons(buttons)
}

func confirmMenu() *tele.ReplyMarkup {
	return telegram.InlineButtons([]telegram.InlineBtn{
		{Text: "✅ Подтвердить бронь", Unique: cbConfirm},
		{Text: "❌ Отменить бронь", Unique: cbCancel},
		{Text: "◀️ Назад", Unique: cbBack},
	})
}

func summaryText(rec booking.Record) string {
	return fmt.Sprintf(
		"📋 *Итоговое подтверждение:*\n\n"+
			"📍 Направление: %s\n"+
			"🎯 Тип тура: %s\n"+
			"📅 Дата: %s\n"+
			"💰 Цена: %s ₸\n\n"+
			"Подтвердите бронирование:",
		rec.DirectionName, rec.TourTypeName, rec.Date, formatPrice(rec.Price),
	)
}

func paymentText(rec booking.Record, payment config.PaymentConfig) string {
	return fmt.Sprintf(
		"✅ *Бронирование подтверждено!*\n\n"+
			"📱 *Реквизиты для оплаты:*\n\n"+
			"Kaspi: `%s`\n"+
			"Halyk: `%s`\n\n"+
			"💰 *Сумма к оплате: %s ₸*\n\n"+
			"📄 Пожалуйста, отправьте чек об оплате (фото или PDF файл).",
		payment.KaspiPhone, payment.HalykPhone, formatPrice(rec.Price),
	)
}

func userConfirmedText(rec booking.Record) string {
	return fmt.Sprintf(
		"✅ *Оплата подтверждена!*\n\n"+
			"🎉 *Тур забронирован*\n\n"+
			"📍 Направление: %s\n"+
			"🎯 Тип тура: %s\n"+
			"📅 Дата: %s\n"+
			"💰 Сумма: %s ₸\n\n"+
			"ℹ️ За день до тура вам будет отправлена организационная информация.",
		rec.DirectionName, rec.TourTypeName, rec.Date, formatPrice(rec.Price),
	)
}

func adminNotifyText(rec booking.Record, username string) string {
	if username == "" {
		username = "не указан"
	}
	return fmt.Sprintf(
		"🔔 *Новая бронь ожидает подтверждения*\n\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"📍 Направление: %s\n"+
			"🎯 Тип тура: %s\n"+
			"📅 Дата: %s\n"+
			"💰 Сумма: %s ₸\n\n"+
			"Используйте /confirm %d для подтверждения",
		username, rec.UserID,
		rec.DirectionName, rec.TourTypeName, rec.Date, formatPrice(rec.Price),
		rec.UserID,
	)
}

var statusOrder = []booking.Status{
	booking.StatusWaitingPayment,
	booking.StatusWaitingAdmin,
	booking.StatusConfirmed,
}

var statusEmoji = map[booking.Status]string{
	booking.StatusWaitingPayment: "⏳",
	booking.StatusWaitingAdmin:   "🔔",
	booking.StatusConfirmed:      "✅",
}

// listText renders every stored record grouped by status; records
// still mid-selection (no status yet) come last.
func listText(entries []booking.Entry) string {
	if len(entries) == 0 {
		return textNoBookings
	}

	groups := make(map[booking.Status][]booking.Entry)
	var inProgress []booking.Entry
	for _, e := range entries {
		if e.Record.Status == "" {
			inProgress = append(inProgress, e)
			continue
		}
		groups[e.Record.Status] = append(groups[e.Record.Status], e)
	}

	var b strings.Builder
	b.WriteString("📋 *Список бронирований:*\n\n")
	for _, status := range statusOrder {
		for _, e := range groups[status] {
			writeListEntry(&b, statusEmoji[status], e)
		}
	}
	for _, e := range inProgress {
		writeListEntry(&b, "❓", e)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeListEntry(b *strings.Builder, emoji string, e booking.Entry) {
	rec := e.Record
	direction := rec.DirectionName
	if direction == "" {
		direction = "не указано"
	}
	date := rec.Date
	if date == "" {
		date = "не указана"
	}
	status := string(rec.Status)
	if status == "" {
		status = string(rec.State)
	}
	fmt.Fprintf(b, "%s ID: %d\n   %s - %s\n   %s ₸ - %s\n\n",
		emoji, e.UserID, direction, date, formatPrice(rec.Price), status)
}

// formatPrice renders a tenge amount with thousands separators, e.g.
// 35000 -> "35 000".
func formatPrice(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, " ")
}
