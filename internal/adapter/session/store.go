// Package session keeps per-browser screen state. Every transition replaces
// the stored value wholesale; callers never mutate a value they have read.
package session

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no state exists for the session.
	ErrNotFound = errors.New("session state not found")
	// ErrConflict is returned by Update when concurrent writers kept winning.
	ErrConflict = errors.New("session state update conflict")
)

// UpdateFunc computes the next state from the current one. found is false when
// the session has no state yet and current is the zero value. Returning an
// error aborts the update and leaves the stored value untouched. It may be
// called more than once per Update and must not perform I/O.
type UpdateFunc[T any] func(current T, found bool) (T, error)

// Store is a per-session state container.
type Store[T any] interface {
	Get(ctx context.Context, sessionID string) (T, error)
	Update(ctx context.Context, sessionID string, fn UpdateFunc[T]) (T, error)
	Delete(ctx context.Context, sessionID string) error
}

// Cloner is implemented by state values that hold reference types.
type Cloner[T any] interface {
	Clone() T
}
