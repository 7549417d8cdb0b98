package userlist

import (
	"context"
	"fmt"
)

// Text of the delete confirmation prompt.
const (
	DeletePromptTitle   = "Confirm Deletion"
	DeletePromptMessage = "Are you sure you want to delete this user? This action cannot be undone."
)

// Choice is the button picked in a confirmation prompt.
type Choice string

const (
	ChoiceCancel  Choice = "cancel"
	ChoiceConfirm Choice = "confirm"
)

// ConfirmPrompt asks a yes/no question. It holds no state of its own; each
// choice runs exactly one of its callbacks.
type ConfirmPrompt struct {
	Open      bool
	Title     string
	Message   string
	OnCancel  func(ctx context.Context) error
	OnConfirm func(ctx context.Context) error
}

// Choose runs the callback for choice.
func (p ConfirmPrompt) Choose(ctx context.Context, choice Choice) error {
	if !p.Open {
		return ErrPromptClosed
	}
	switch choice {
	case ChoiceCancel:
		return p.OnCancel(ctx)
	case ChoiceConfirm:
		return p.OnConfirm(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
	}
}
