package telegram

import tele "gopkg.in/telebot.v4"

// InlineBtn describes an inline button by text, callback unique and
// payload.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// InlineButtons builds an inline keyboard placing each button on its
// own row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	rows := make([][]InlineBtn, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []InlineBtn{b})
	}
	return InlineButtonsRows(rows...)
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}
