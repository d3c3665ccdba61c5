package booking

// Terminal reports whether no further user events are accepted from s.
func (s State) Terminal() bool {
	return s == StateConfirmed
}

// prev maps each state to the state a "back" event returns to.
// Back navigation never clears fields that belong to later steps; a
// user backing up and re-selecting overwrites only the step going
// forward.
var prev = map[State]State{
	StateChoosingTourType: StateChoosingDirection,
	StateChoosingDate:     StateChoosingTourType,
	StateConfirming:       StateChoosingDate,
}

// Previous returns the state a back event leads to, if the current
// state allows backing up at all.
func Previous(s State) (State, bool) {
	p, ok := prev[s]
	return p, ok
}

// allowedReceiptMIME lists the document content types accepted as a
// payment receipt. Photos are always accepted regardless of MIME.
var allowedReceiptMIME = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

// AcceptableReceiptMIME reports whether a document of the given MIME
// type may be submitted as a payment receipt.
func AcceptableReceiptMIME(mime string) bool {
	_, ok := allowedReceiptMIME[mime]
	return ok
}
