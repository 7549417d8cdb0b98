package createform

import (
	domain "user-admin/internal/domain/user"
)

// State is the create modal of one browser session.
type State struct {
	Open  bool          `json:"open"`
	Draft domain.Record `json:"draft"`
	Error string        `json:"error,omitempty"`
}

// Clone returns a copy of s. State holds no reference types, so this is a
// plain value copy.
func (s State) Clone() State {
	return s
}
