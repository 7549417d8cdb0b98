package userlist

import (
	"slices"

	domain "user-admin/internal/domain/user"
)

// Mode is what the screen shows in place of the grid.
type Mode int

const (
	// ModeLoading shows a progress indicator.
	ModeLoading Mode = iota
	// ModeError shows the error message.
	ModeError
	// ModeGrid shows the rows.
	ModeGrid
)

// State is the list view snapshot of one browser session. It is replaced as a
// whole on every transition.
type State struct {
	Rows           []domain.Record    `json:"rows"`
	TotalCount     int64              `json:"totalCount"`
	Loading        bool               `json:"loading"`
	Error          string             `json:"error,omitempty"`
	SelectedID     string             `json:"selectedId,omitempty"`
	Pagination     domain.PageRequest `json:"pagination"`
	ConfirmVisible bool               `json:"confirmVisible"`

	// LoadSeq identifies the latest Load issued for this session. A Load
	// commits its result only while LoadSeq still carries its number.
	LoadSeq uint64 `json:"loadSeq"`
}

// NewState returns the state of a freshly opened screen.
func NewState() State {
	return State{
		Rows:       []domain.Record{},
		Loading:    true,
		Pagination: domain.DefaultPageRequest(),
	}
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	s.Rows = slices.Clone(s.Rows)
	return s
}

// Mode returns the single rendered mode for s.
func (s State) Mode() Mode {
	switch {
	case s.Loading:
		return ModeLoading
	case s.Error != "":
		return ModeError
	default:
		return ModeGrid
	}
}

// HasRow reports whether id belongs to a row of the current page.
func (s State) HasRow(id string) bool {
	if id == "" {
		return false
	}
	return slices.ContainsFunc(s.Rows, func(r domain.Record) bool { return r.ID == id })
}
