package userlist

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

// UsersAPI is the part of the Users API the list needs.
type UsersAPI interface {
	List(ctx context.Context, p domain.PageRequest) (domain.Page, error)
	Delete(ctx context.Context, id string) error
}

// Controller keeps the grid of each session consistent with the Users API
// across page changes and mutations. It is the only component that decides
// when the list is fetched.
type Controller struct {
	api   UsersAPI
	store session.Store[State]
	log   *zap.Logger
}

// New creates a new list Controller.
func New(api UsersAPI, store session.Store[State], log *zap.Logger) *Controller {
	return &Controller{api: api, store: store, log: log}
}

// State returns the current snapshot for the session.
func (c *Controller) State(ctx context.Context, sessionID string) (State, error) {
	st, err := c.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return State{}, ErrNoState
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read list state: %w", err)
	}
	return st, nil
}

// Initialize opens the screen on the first page and loads it.
func (c *Controller) Initialize(ctx context.Context, sessionID string) (State, error) {
	if _, err := c.begin(ctx, sessionID); err != nil {
		return State{}, err
	}
	return c.Load(ctx, sessionID, domain.DefaultPageRequest())
}

// begin stores the initial state without fetching. The load sequence survives
// so a Load still in flight from before cannot commit afterwards.
func (c *Controller) begin(ctx context.Context, sessionID string) (State, error) {
	st, err := c.store.Update(ctx, sessionID, func(cur State, found bool) (State, error) {
		next := NewState()
		if found {
			next.LoadSeq = cur.LoadSeq
		}
		return next, nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to initialize list state: %w", err)
	}

	logger.WithContext(ctx, c.log).Debug("user list initialized")
	return st, nil
}

// Reload fetches the current page again.
func (c *Controller) Reload(ctx context.Context, sessionID string) (State, error) {
	st, err := c.State(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return c.Load(ctx, sessionID, st.Pagination)
}

// Load requests the window described by p and stores the result. Exactly one
// request is issued. Only the most recently issued Load of a session commits;
// an older response that completes later is discarded.
func (c *Controller) Load(ctx context.Context, sessionID string, p domain.PageRequest) (State, error) {
	if err := p.Validate(); err != nil {
		return State{}, err
	}

	pending, err := c.store.Update(ctx, sessionID, func(cur State, found bool) (State, error) {
		if !found {
			cur = NewState()
		}
		next := cur.Clone()
		next.Pagination = p
		next.Loading = true
		next.LoadSeq = cur.LoadSeq + 1
		return next, nil
	})
	if err != nil {
		return State{}, fmt.Errorf("failed to start load: %w", err)
	}
	seq := pending.LoadSeq

	log := logger.WithContext(ctx, c.log).With(
		zap.Int("page", p.Page),
		zap.Int("page_size", p.PageSize),
		zap.Uint64("load_seq", seq),
	)

	page, apiErr := c.api.List(ctx, p)
	if apiErr != nil {
		log.Error("failed to fetch users", zap.Error(pkgerrors.NewUIError(pkgerrors.FetchFailed, apiErr)))
	}

	rows := page.Users
	if len(rows) > p.PageSize {
		log.Warn("users api returned more rows than requested", zap.Int("rows", len(rows)))
		rows = rows[:p.PageSize]
	}

	// The outcome is committed even when the request was canceled during the
	// call, otherwise the screen would stay in loading.
	commitCtx := context.WithoutCancel(ctx)
	st, err := c.store.Update(commitCtx, sessionID, func(cur State, found bool) (State, error) {
		if !found || cur.LoadSeq != seq {
			return cur, errStaleLoad
		}
		next := cur.Clone()
		next.Loading = false
		if apiErr != nil {
			next.Error = pkgerrors.FetchFailed.Message()
			return next, nil
		}
		next.Rows = make([]domain.Record, len(rows))
		copy(next.Rows, rows)
		next.TotalCount = page.Total
		next.Error = ""
		return next, nil
	})
	if errors.Is(err, errStaleLoad) {
		log.Info("discarding stale page response")
		return c.State(commitCtx, sessionID)
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to commit load: %w", err)
	}

	if apiErr == nil {
		log.Debug("users page loaded", zap.Int("rows", len(st.Rows)), zap.Int64("total", st.TotalCount))
	}
	return st, nil
}

// OnPaginationChange switches to p and loads it. Repeated calls with the same
// value each issue their own request.
func (c *Controller) OnPaginationChange(ctx context.Context, sessionID string, p domain.PageRequest) (State, error) {
	return c.Load(ctx, sessionID, p)
}

// OnUserCreated reloads the current page. The page is not reset, so the new
// user may land on a page that is not shown.
func (c *Controller) OnUserCreated(ctx context.Context, sessionID string) (State, error) {
	return c.Reload(ctx, sessionID)
}

// OnRowSelected applies a single-selection model: the first id of selection,
// or none when selection is empty.
func (c *Controller) OnRowSelected(ctx context.Context, sessionID string, selection []string) (State, error) {
	return c.transition(ctx, sessionID, func(cur State) (State, error) {
		id := ""
		if len(selection) > 0 {
			id = selection[0]
		}
		if id != "" && !cur.HasRow(id) {
			return cur, fmt.Errorf("%w: %q", ErrUnknownRow, id)
		}
		if cur.ConfirmVisible && id != cur.SelectedID {
			return cur, ErrConfirmOpen
		}
		next := cur.Clone()
		next.SelectedID = id
		return next, nil
	})
}

// OpenDeleteConfirm selects id and shows the delete prompt.
func (c *Controller) OpenDeleteConfirm(ctx context.Context, sessionID, id string) (State, error) {
	return c.transition(ctx, sessionID, func(cur State) (State, error) {
		if !cur.HasRow(id) {
			return cur, fmt.Errorf("%w: %q", ErrUnknownRow, id)
		}
		next := cur.Clone()
		next.SelectedID = id
		next.ConfirmVisible = true
		return next, nil
	})
}

// CloseDeleteConfirm hides the delete prompt and clears the selection.
func (c *Controller) CloseDeleteConfirm(ctx context.Context, sessionID string) (State, error) {
	return c.transition(ctx, sessionID, func(cur State) (State, error) {
		next := cur.Clone()
		next.ConfirmVisible = false
		next.SelectedID = ""
		return next, nil
	})
}

// ConfirmDelete deletes the selected user. On success the prompt closes, the
// selection clears and the current page is loaded again. On failure the error
// is shown and the prompt stays open with the selection kept.
func (c *Controller) ConfirmDelete(ctx context.Context, sessionID string) (State, error) {
	cur, err := c.State(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	if cur.SelectedID == "" {
		return cur, ErrNoSelection
	}
	id := cur.SelectedID
	log := logger.WithContext(ctx, c.log).With(zap.String("user_id", id))

	apiErr := c.api.Delete(ctx, id)
	commitCtx := context.WithoutCancel(ctx)
	if apiErr != nil {
		log.Error("failed to delete user", zap.Error(pkgerrors.NewUIError(pkgerrors.DeleteFailed, apiErr)))
		return c.transition(commitCtx, sessionID, func(cur State) (State, error) {
			next := cur.Clone()
			next.Error = pkgerrors.DeleteFailed.Message()
			return next, nil
		})
	}
	log.Info("user deleted")

	next, err := c.transition(commitCtx, sessionID, func(cur State) (State, error) {
		next := cur.Clone()
		next.SelectedID = ""
		next.ConfirmVisible = false
		return next, nil
	})
	if err != nil {
		return State{}, err
	}
	return c.Load(ctx, sessionID, next.Pagination)
}

// Reset drops the session state; the next visit initializes the screen again.
func (c *Controller) Reset(ctx context.Context, sessionID string) error {
	if err := c.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset list state: %w", err)
	}
	return nil
}

// DeletePrompt binds the delete confirmation prompt of st to this controller.
func (c *Controller) DeletePrompt(sessionID string, st State) ConfirmPrompt {
	return ConfirmPrompt{
		Open:    st.ConfirmVisible,
		Title:   DeletePromptTitle,
		Message: DeletePromptMessage,
		OnCancel: func(ctx context.Context) error {
			_, err := c.CloseDeleteConfirm(ctx, sessionID)
			return err
		},
		OnConfirm: func(ctx context.Context) error {
			_, err := c.ConfirmDelete(ctx, sessionID)
			return err
		},
	}
}

// transition applies a pure state change to an existing session.
func (c *Controller) transition(ctx context.Context, sessionID string, fn func(State) (State, error)) (State, error) {
	st, err := c.store.Update(ctx, sessionID, func(cur State, found bool) (State, error) {
		if !found {
			return cur, ErrNoState
		}
		return fn(cur)
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}
