package bot

import (
	"errors"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/booking"
	"tourbot/internal/telegram"
)

// onStart discards any in-progress booking and opens the destination
// menu. /start is also the escape hatch from every other state.
func (a *App) onStart(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.Start(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	_, menu := prompt(rec, a.svc.Catalog())
	return c.Send(welcomeText(firstName(c.Sender())), menu)
}

// onCancel handles the /cancel command from any non-terminal state.
func (a *App) onCancel(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	if err := a.svc.Cancel(ctx, c.Sender().ID); err != nil {
		if errors.Is(err, booking.ErrInvalidEvent) {
			return c.Send(textAlreadyConfirmed)
		}
		return err
	}
	return c.Send(textCancelled)
}

func (a *App) onDirection(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.SelectDirection(ctx, c.Sender().ID, telegram.CallbackPayload(c))
	if err != nil {
		return a.selectionError(c, err)
	}
	text, menu := prompt(rec, a.svc.Catalog())
	return c.Edit(text, menu, tele.ModeMarkdown)
}

func (a *App) onTourType(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.SelectTourType(ctx, c.Sender().ID, telegram.CallbackPayload(c))
	if err != nil {
		return a.selectionError(c, err)
	}
	text, menu := prompt(rec, a.svc.Catalog())
	return c.Edit(text, menu, tele.ModeMarkdown)
}

func (a *App) onDate(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.SelectDate(ctx, c.Sender().ID, telegram.CallbackPayload(c))
	if err != nil {
		return a.selectionError(c, err)
	}
	text, menu := prompt(rec, a.svc.Catalog())
	return c.Edit(text, menu, tele.ModeMarkdown)
}

// onBack moves one step towards the start and re-renders that step's
// menu. Earlier choices are kept.
func (a *App) onBack(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.Back(ctx, c.Sender().ID)
	if err != nil {
		return a.selectionError(c, err)
	}
	text, menu := prompt(rec, a.svc.Catalog())
	return c.Edit(text, menu, tele.ModeMarkdown)
}

// onConfirm commits the booking and shows the payment requisites.
func (a *App) onConfirm(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.Confirm(ctx, c.Sender().ID)
	if err != nil {
		return a.selectionError(c, err)
	}
	return c.Edit(paymentText(rec, a.cfg.Payment), tele.ModeMarkdown)
}

// onCancelButton handles the inline cancel button on the confirmation
// screen.
func (a *App) onCancelButton(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	if err := a.svc.Cancel(ctx, c.Sender().ID); err != nil {
		if errors.Is(err, booking.ErrInvalidEvent) {
			return c.Send(textStaleChoice)
		}
		return err
	}
	return c.Edit(textCancelled)
}

// onPhoto treats any photo as a payment receipt submission.
func (a *App) onPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	return a.submitReceipt(c, photo.FileID, booking.ReceiptPhoto)
}

// onDocument accepts PDF and image documents as receipts; anything
// else is rejected without touching the record.
func (a *App) onDocument(c tele.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	if !booking.AcceptableReceiptMIME(doc.MIME) {
		return a.corrective(c)
	}
	return a.submitReceipt(c, doc.FileID, booking.ReceiptDocument)
}

func (a *App) submitReceipt(c tele.Context, fileID string, kind booking.ReceiptKind) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.SubmitReceipt(ctx, c.Sender().ID, fileID, kind)
	if err != nil {
		if errors.Is(err, booking.ErrBadReceipt) {
			return c.Send(textBadReceipt)
		}
		return a.corrective(c)
	}

	if err := c.Send(textReceiptTaken); err != nil {
		return err
	}
	// Best effort: the transition is already persisted, a failed admin
	// notification must not surface to the user.
	a.notifyAdmin(ctx, rec, c.Sender())
	return nil
}

// onText answers free text according to the user's current step; it is
// never a legal booking event on its own.
func (a *App) onText(c tele.Context) error {
	return a.corrective(c)
}

// corrective replies with guidance for an event that is not valid in
// the user's current state, leaving the record untouched.
func (a *App) corrective(c tele.Context) error {
	ctx := telegram.BuildContext(c)
	rec, err := a.svc.Current(ctx, c.Sender().ID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.Send(textNoBooking)
		}
		return err
	}
	switch rec.State {
	case booking.StateWaitingReceipt:
		return c.Send(textBadReceipt)
	case booking.StateWaitingAdminReview:
		return c.Send(textWaitAdmin)
	default:
		return c.Send(textUseButtons)
	}
}

// selectionError maps service error kinds to user-facing replies for
// button presses.
func (a *App) selectionError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrUnknownSelection):
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестный выбор"})
	case errors.Is(err, booking.ErrInvalidEvent), errors.Is(err, booking.ErrNotFound):
		// A press on an outdated menu, e.g. after /start or approval.
		return c.Send(textStaleChoice)
	default:
		return err
	}
}
