package bot

import (
	"strings"
	"testing"

	"tourbot/internal/booking"
	"tourbot/internal/config"
)

func TestFormatPrice(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1 000",
		25000:   "25 000",
		35000:   "35 000",
		60000:   "60 000",
		1234567: "1 234 567",
	}
	for n, want := range cases {
		if got := formatPrice(n); got != want {
			t.Errorf("formatPrice(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestPromptPerState(t *testing.T) {
	cat := booking.DefaultCatalog()
	rec := booking.Record{
		State:         booking.StateChoosingDirection,
		DirectionName: "Чарынский каньон",
		TourTypeName:  "Фототур",
		Price:         35000,
		Date:          "19 января",
	}

	text, menu := prompt(rec, cat)
	if !strings.Contains(text, "направление") || menu == nil {
		t.Fatalf("direction prompt = %q, menu=%v", text, menu)
	}
	if rows := len(menu.InlineKeyboard); rows != len(cat.Directions) {
		t.Fatalf("direction menu rows = %d, want %d", rows, len(cat.Directions))
	}

	rec.State = booking.StateChoosingTourType
	text, menu = prompt(rec, cat)
	if !strings.Contains(text, "Чарынский каньон") {
		t.Fatalf("tour type prompt %q misses the chosen direction", text)
	}
	// Tour types plus the back button, prices labelled on each.
	if rows := len(menu.InlineKeyboard); rows != len(cat.TourTypes)+1 {
		t.Fatalf("tour type menu rows = %d, want %d", rows, len(cat.TourTypes)+1)
	}
	if btn := menu.InlineKeyboard[0][0]; !strings.Contains(btn.Text, "60 000") {
		t.Fatalf("first tour type button %q misses the price", btn.Text)
	}

	rec.State = booking.StateChoosingDate
	text, menu = prompt(rec, cat)
	if !strings.Contains(text, "Фототур") {
		t.Fatalf("date prompt %q misses the chosen tour type", text)
	}
	if rows := len(menu.InlineKeyboard); rows != len(cat.Dates)+1 {
		t.Fatalf("date menu rows = %d, want %d", rows, len(cat.Dates)+1)
	}

	rec.State = booking.StateConfirming
	text, menu = prompt(rec, cat)
	for _, frag := range []string{"Чарынский каньон", "Фототур", "19 января", "35 000"} {
		if !strings.Contains(text, frag) {
			t.Errorf("summary %q misses %q", text, frag)
		}
	}
	if rows := len(menu.InlineKeyboard); rows != 3 {
		t.Fatalf("confirm menu rows = %d, want 3", rows)
	}

	rec.State = booking.StateWaitingReceipt
	if text, menu = prompt(rec, cat); text != "" || menu != nil {
		t.Fatal("non-choice states must have no prompt")
	}
}

func TestPaymentText(t *testing.T) {
	rec := booking.Record{Price: 35000}
	payment := config.PaymentConfig{KaspiPhone: "+7 747 048 5449", HalykPhone: "+7 7470485449"}
	text := paymentText(rec, payment)
	for _, frag := range []string{"+7 747 048 5449", "+7 7470485449", "35 000"} {
		if !strings.Contains(text, frag) {
			t.Errorf("payment text misses %q", frag)
		}
	}
}

func TestAdminNotifyText(t *testing.T) {
	rec := booking.Record{
		UserID:        555,
		DirectionName: "Кольсайские озёра",
		TourTypeName:  "Обычный тур",
		Price:         25000,
		Date:          "2 февраля",
	}
	text := adminNotifyText(rec, "traveler")
	for _, frag := range []string{"@traveler", "ID: 555", "/confirm 555", "25 000"} {
		if !strings.Contains(text, frag) {
			t.Errorf("notify text misses %q", frag)
		}
	}
	if text := adminNotifyText(rec, ""); !strings.Contains(text, "@не указан") {
		t.Errorf("missing username placeholder: %q", text)
	}
}

func TestListTextGroupsByStatus(t *testing.T) {
	entries := []booking.Entry{
		{UserID: 1, Record: booking.Record{UserID: 1, State: booking.StateChoosingDate}},
		{UserID: 2, Record: booking.Record{
			UserID: 2, Status: booking.StatusConfirmed, State: booking.StateConfirmed,
			DirectionName: "Алтын-Эмель", Date: "9 февраля", Price: 30000,
		}},
		{UserID: 3, Record: booking.Record{
			UserID: 3, Status: booking.StatusWaitingPayment, State: booking.StateWaitingReceipt,
			DirectionName: "Чарынский каньон", Date: "19 января", Price: 35000,
		}},
		{UserID: 4, Record: booking.Record{
			UserID: 4, Status: booking.StatusWaitingAdmin, State: booking.StateWaitingAdminReview,
			DirectionName: "Кольсайские озёра", Date: "26 января", Price: 25000,
		}},
	}

	text := listText(entries)
	// waiting_payment, then waiting for the admin, then confirmed, then
	// records still mid-selection.
	order := []string{"ID: 3", "ID: 4", "ID: 2", "ID: 1"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(text, marker)
		if idx < 0 {
			t.Fatalf("list misses %q:\n%s", marker, text)
		}
		if idx < last {
			t.Fatalf("%q out of order:\n%s", marker, text)
		}
		last = idx
	}
	if !strings.Contains(text, "не указано") {
		t.Error("in-progress entry must render the missing-direction placeholder")
	}
}

func TestListTextEmpty(t *testing.T) {
	if got := listText(nil); got != textNoBookings {
		t.Fatalf("listText(nil) = %q", got)
	}
}
