package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData parses telebot's \f<unique>|<payload> encoding and
// returns the unique key and payload (either may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}

// CallbackKey returns cb.Unique if present, otherwise parses it from
// the raw data.
func CallbackKey(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	key, _ := ParseCallbackData(cb)
	return key
}

// CallbackPayload returns the payload part of the pressed button.
func CallbackPayload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	_, payload := ParseCallbackData(cb)
	return payload
}
