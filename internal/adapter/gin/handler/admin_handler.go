package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-admin/internal/adapter/gin/middleware"
	"user-admin/internal/adapter/gin/view"
	domain "user-admin/internal/domain/user"
	"user-admin/internal/usecase/createform"
	"user-admin/internal/usecase/userlist"
	"user-admin/pkg/logger"
)

// ScreenPath is where the admin screen lives.
const ScreenPath = "/users"

// badRequestErrors are caller mistakes answered with 400.
var badRequestErrors = []error{
	domain.ErrInvalidPagination,
	userlist.ErrUnknownRow,
	userlist.ErrNoSelection,
	userlist.ErrConfirmOpen,
	userlist.ErrPromptClosed,
	userlist.ErrUnknownChoice,
	createform.ErrUnknownField,
	createform.ErrFormClosed,
	createform.ErrNoState,
}

// AdminHandler serves the user admin screen. Every action answers htmx
// requests with the screen fragment and plain form posts with a redirect back
// to the screen.
type AdminHandler struct {
	list *userlist.Controller
	form *createform.Controller
	log  *zap.Logger

	// inits collapses concurrent first visits of one session into a single
	// Initialize.
	inits singleflight.Group
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(list *userlist.Controller, form *createform.Controller, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		list: list,
		form: form,
		log:  log,
	}
}

// Screen handles GET /users. The first visit of a session initializes the list.
func (h *AdminHandler) Screen(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	if _, err := h.list.State(ctx, sid); errors.Is(err, userlist.ErrNoState) {
		_, err, _ := h.inits.Do(sid, func() (any, error) {
			return h.list.Initialize(ctx, sid)
		})
		if err != nil {
			h.fail(c, err)
			return
		}
	} else if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, view.PageTemplate)
}

// Load handles POST /users/load
func (h *AdminHandler) Load(c *gin.Context) {
	h.respond(c, func() error {
		_, err := h.list.Reload(c.Request.Context(), middleware.SessionID(c))
		return err
	})
}

// Page handles POST /users/page
func (h *AdminHandler) Page(c *gin.Context) {
	page, errPage := strconv.Atoi(c.PostForm("page"))
	size, errSize := strconv.Atoi(c.PostForm("pageSize"))
	if errPage != nil || errSize != nil {
		c.String(http.StatusBadRequest, "page and pageSize must be integers")
		return
	}

	h.respond(c, func() error {
		_, err := h.list.OnPaginationChange(c.Request.Context(), middleware.SessionID(c), domain.PageRequest{Page: page, PageSize: size})
		return err
	})
}

// Select handles POST /users/select. An empty id clears the selection.
func (h *AdminHandler) Select(c *gin.Context) {
	var selection []string
	if id := c.PostForm("id"); id != "" {
		selection = []string{id}
	}

	h.respond(c, func() error {
		_, err := h.list.OnRowSelected(c.Request.Context(), middleware.SessionID(c), selection)
		return err
	})
}

// OpenDelete handles POST /users/delete/open
func (h *AdminHandler) OpenDelete(c *gin.Context) {
	h.respond(c, func() error {
		_, err := h.list.OpenDeleteConfirm(c.Request.Context(), middleware.SessionID(c), c.PostForm("id"))
		return err
	})
}

// ChooseDelete handles POST /users/delete/choose
func (h *AdminHandler) ChooseDelete(c *gin.Context) {
	h.respond(c, func() error {
		ctx := c.Request.Context()
		sid := middleware.SessionID(c)

		st, err := h.list.State(ctx, sid)
		if err != nil {
			return err
		}
		return h.list.DeletePrompt(sid, st).Choose(ctx, userlist.Choice(c.PostForm("choice")))
	})
}

// OpenCreate handles POST /users/create/open
func (h *AdminHandler) OpenCreate(c *gin.Context) {
	h.respond(c, func() error {
		_, err := h.form.Open(c.Request.Context(), middleware.SessionID(c))
		return err
	})
}

// ChangeField handles POST /users/create/field. The value is read from
// "value", or from the field's own input name when "value" is absent.
func (h *AdminHandler) ChangeField(c *gin.Context) {
	name := c.PostForm("name")
	value, ok := c.GetPostForm("value")
	if !ok {
		value = c.PostForm(name)
	}

	h.respond(c, func() error {
		_, err := h.form.FieldChange(c.Request.Context(), middleware.SessionID(c), name, value)
		return err
	})
}

// SubmitCreate handles POST /users/create/submit. Posted field values are
// applied to the draft before it is submitted.
func (h *AdminHandler) SubmitCreate(c *gin.Context) {
	h.respond(c, func() error {
		ctx := c.Request.Context()
		sid := middleware.SessionID(c)

		for _, name := range domain.Fields {
			value, ok := c.GetPostForm(name)
			if !ok {
				continue
			}
			if _, err := h.form.FieldChange(ctx, sid, name, value); err != nil {
				return err
			}
		}
		_, err := h.form.Submit(ctx, sid)
		return err
	})
}

// CancelCreate handles POST /users/create/cancel
func (h *AdminHandler) CancelCreate(c *gin.Context) {
	h.respond(c, func() error {
		_, err := h.form.Cancel(c.Request.Context(), middleware.SessionID(c))
		return err
	})
}

// Reset handles POST /users/reset. The session starts over on its next visit.
func (h *AdminHandler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	if err := h.list.Reset(ctx, sid); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.form.Reset(ctx, sid); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c)
}

// respond runs action and answers with the updated screen.
func (h *AdminHandler) respond(c *gin.Context, action func() error) {
	if err := action(); err != nil {
		h.fail(c, err)
		return
	}

	if view.IsHTMXRequest(c.Request) {
		h.render(c, http.StatusOK, view.ScreenTemplate)
		return
	}
	c.Redirect(http.StatusSeeOther, ScreenPath)
}

// redirect sends the browser back to the screen, which reinitializes it.
func (h *AdminHandler) redirect(c *gin.Context) {
	if view.IsHTMXRequest(c.Request) {
		c.Header("HX-Redirect", ScreenPath)
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, ScreenPath)
}

func (h *AdminHandler) render(c *gin.Context, status int, name string) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	list, err := h.list.State(ctx, sid)
	if err != nil {
		h.fail(c, err)
		return
	}
	form, err := h.form.State(ctx, sid)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(status, name, view.NewScreen(list, h.list.DeletePrompt(sid, list), form))
}

// fail maps err to a response. A session whose state expired is sent back to
// the screen to start over.
func (h *AdminHandler) fail(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	if errors.Is(err, userlist.ErrNoState) {
		log.Info("session state missing, restarting screen")
		h.redirect(c)
		return
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			log.Warn("rejected screen action", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.String(http.StatusBadRequest, err.Error())
			return
		}
	}

	log.Error("screen action failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal error")
}
