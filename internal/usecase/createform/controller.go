package createform

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"user-admin/internal/adapter/session"
	domain "user-admin/internal/domain/user"
	pkgerrors "user-admin/pkg/errors"
	"user-admin/pkg/logger"
)

var (
	// ErrNoState is returned when the session has never opened the form.
	ErrNoState = errors.New("create form has no state")
	// ErrFormClosed is returned for edits or submits while the modal is hidden.
	ErrFormClosed = errors.New("create form is closed")
	// ErrUnknownField is returned for a field name that is not part of a user.
	ErrUnknownField = errors.New("unknown user field")
)

// Creator is the part of the Users API the form needs.
type Creator interface {
	Create(ctx context.Context, rec domain.Record) (domain.Record, error)
}

// CreatedFunc is called after a user was created successfully.
type CreatedFunc func(ctx context.Context, sessionID string) error

// Controller drives the create-user modal.
type Controller struct {
	api       Creator
	store     session.Store[State]
	onCreated CreatedFunc
	log       *zap.Logger
}

// New creates a new form Controller. onCreated may be nil.
func New(api Creator, store session.Store[State], onCreated CreatedFunc, log *zap.Logger) *Controller {
	return &Controller{api: api, store: store, onCreated: onCreated, log: log}
}

// State returns the form snapshot. A session that never opened the form sees
// a closed, empty form.
func (c *Controller) State(ctx context.Context, sessionID string) (State, error) {
	st, err := c.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read form state: %w", err)
	}
	return st, nil
}

// Open shows the modal with an empty draft.
func (c *Controller) Open(ctx context.Context, sessionID string) (State, error) {
	st, err := c.store.Update(ctx, sessionID, func(State, bool) (State, error) {
		return State{Open: true}, nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to open form: %w", err)
	}
	return st, nil
}

// FieldChange stores value verbatim in the named draft field.
func (c *Controller) FieldChange(ctx context.Context, sessionID, name, value string) (State, error) {
	return c.transition(ctx, sessionID, func(cur State) (State, error) {
		draft, ok := cur.Draft.WithField(name, value)
		if !ok {
			return cur, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		next := cur.Clone()
		next.Draft = draft
		return next, nil
	})
}

// Submit posts the draft to the Users API. On success the parent is notified,
// and the modal closes with an empty draft. On failure the modal stays open
// with the error shown and the draft kept for another attempt.
func (c *Controller) Submit(ctx context.Context, sessionID string) (State, error) {
	cur, err := c.State(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	if !cur.Open {
		return cur, ErrFormClosed
	}
	log := logger.WithContext(ctx, c.log)

	created, apiErr := c.api.Create(ctx, cur.Draft)
	// A canceled request must not lose the outcome of the call.
	commitCtx := context.WithoutCancel(ctx)
	if apiErr != nil {
		log.Error("failed to create user", zap.Error(pkgerrors.NewUIError(pkgerrors.CreateFailed, apiErr)))
		return c.transition(commitCtx, sessionID, func(cur State) (State, error) {
			next := cur.Clone()
			next.Error = pkgerrors.CreateFailed.Message()
			return next, nil
		})
	}
	log.Info("user created", zap.String("user_id", created.ID))

	st, err := c.store.Update(commitCtx, sessionID, func(State, bool) (State, error) {
		return State{}, nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to reset form: %w", err)
	}

	if c.onCreated != nil {
		if err := c.onCreated(ctx, sessionID); err != nil {
			return st, fmt.Errorf("failed to notify user list: %w", err)
		}
	}
	return st, nil
}

// Cancel hides the modal. The draft is dropped by the next Open.
func (c *Controller) Cancel(ctx context.Context, sessionID string) (State, error) {
	st, err := c.store.Update(ctx, sessionID, func(cur State, _ bool) (State, error) {
		next := cur.Clone()
		next.Open = false
		return next, nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to close form: %w", err)
	}
	return st, nil
}

func (c *Controller) transition(ctx context.Context, sessionID string, fn func(State) (State, error)) (State, error) {
	return c.store.Update(ctx, sessionID, func(cur State, found bool) (State, error) {
		if !found {
			return cur, ErrNoState
		}
		if !cur.Open {
			return cur, ErrFormClosed
		}
		return fn(cur)
	})
}

// Reset drops the form state of the session.
func (c *Controller) Reset(ctx context.Context, sessionID string) error {
	if err := c.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset form state: %w", err)
	}
	return nil
}
