package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterCommand("start", Command{Handler: noopHandler}); err == nil {
		t.Error("name without leading slash must be rejected")
	}
	if err := r.RegisterCommand("/start", Command{}); err == nil {
		t.Error("nil handler must be rejected")
	}
	if err := r.RegisterCommand("/start", Command{Handler: noopHandler}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCommand("/start", Command{Handler: noopHandler}); err == nil {
		t.Error("duplicate registration must be rejected")
	}
}

func TestLookupCommand(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCommand("/list", Command{Handler: noopHandler, Aliases: []string{"bookings"}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCommand("/confirm", Command{Handler: noopHandler, AdminOnly: true}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/list", "/list", true},
		{"list", "/list", true},
		{"/bookings", "/list", true},
		{"bookings", "/list", true},
		{"/confirm 12345", "/confirm", true},
		{"/unknown", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		key, _, ok := r.LookupCommand(tc.in)
		if ok != tc.ok || key != tc.want {
			t.Errorf("LookupCommand(%q) = %q, %v; want %q, %v", tc.in, key, ok, tc.want, tc.ok)
		}
	}
}

func TestListCommandsHidesAdminOnly(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", Command{Handler: noopHandler, Description: "start"})
	r.RegisterCommand("/cancel", Command{Handler: noopHandler, Description: "cancel"})
	r.RegisterCommand("/confirm", Command{Handler: noopHandler, AdminOnly: true})
	r.RegisterCommand("/debug", Command{Handler: noopHandler, Hidden: true})

	visible := r.ListCommands(true)
	if len(visible) != 2 {
		t.Fatalf("visible = %v", visible)
	}
	// Sorted by command text.
	if visible[0].Text != "/cancel" || visible[1].Text != "/start" {
		t.Fatalf("order = %v", visible)
	}

	all := r.ListCommands(false)
	if len(all) != 4 {
		t.Fatalf("all = %v", all)
	}
}

func TestCallbackRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCallback("direction", noopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCallback("direction", noopHandler); err == nil {
		t.Error("duplicate callback must be rejected")
	}
	if _, ok := r.GetCallback("direction"); !ok {
		t.Error("registered callback not found")
	}
	if _, ok := r.GetCallback("missing"); ok {
		t.Error("unknown callback must miss")
	}
	if r.CallbackNotFound() == nil {
		t.Error("default unknown-callback handler must be set")
	}
}

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data    string
		key     string
		payload string
	}{
		{"\fdirection|charyn", "direction", "charyn"},
		{"\fback", "back", ""},
		{"date|19 января", "date", "19 января"},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if key != tc.key || payload != tc.payload {
			t.Errorf("ParseCallbackData(%q) = %q, %q; want %q, %q", tc.data, key, payload, tc.key, tc.payload)
		}
	}
	if key, payload := ParseCallbackData(nil); key != "" || payload != "" {
		t.Error("nil callback must parse to empty parts")
	}
}

func TestInlineButtons(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Чарынский каньон", Unique: "direction", Data: "charyn"},
		{Text: "◀️ Назад", Unique: "back"},
	})
	if rows := len(markup.InlineKeyboard); rows != 2 {
		t.Fatalf("rows = %d, want 2", rows)
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.Text != "Чарынский каньон" {
		t.Errorf("text = %q", btn.Text)
	}
	if btn.Unique != "direction" || btn.Data != "charyn" {
		t.Errorf("unique/data = %q/%q", btn.Unique, btn.Data)
	}
	if back := markup.InlineKeyboard[1][0]; back.Unique != "back" || back.Data != "" {
		t.Errorf("back unique/data = %q/%q", back.Unique, back.Data)
	}
}
