package userlist

import "errors"

var (
	// ErrNoState means the session has no list state; the screen must be initialized.
	ErrNoState = errors.New("user list not initialized")
	// ErrUnknownRow means an id does not belong to the current page.
	ErrUnknownRow = errors.New("row not on current page")
	// ErrNoSelection means a delete was confirmed with no selected row.
	ErrNoSelection = errors.New("no row selected")
	// ErrConfirmOpen means the selection cannot change while the delete prompt is shown.
	ErrConfirmOpen = errors.New("delete confirmation is open")
	// ErrPromptClosed means a choice was made on a hidden prompt.
	ErrPromptClosed = errors.New("confirmation prompt is not open")
	// ErrUnknownChoice means the prompt received neither cancel nor confirm.
	ErrUnknownChoice = errors.New("unknown confirmation choice")

	errStaleLoad = errors.New("stale load")
)
