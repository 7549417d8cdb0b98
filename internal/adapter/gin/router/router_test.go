package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-admin/internal/adapter/db/postgres"
	"user-admin/internal/adapter/gin/handler"
	"user-admin/internal/adapter/gin/middleware"
	"user-admin/internal/adapter/session"
	"user-admin/internal/adapter/usersapi"
	domain "user-admin/internal/domain/user"
	"user-admin/internal/usecase/createform"
	"user-admin/internal/usecase/user"
	"user-admin/internal/usecase/userlist"
	pkgerrors "user-admin/pkg/errors"
)

const cookieName = "sid"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupUsersAPI(t *testing.T, log *zap.Logger) *httptest.Server {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&postgres.UserSchema{}))

	uc := user.New(postgres.NewUserRepoPG(db, log), log)
	srv := httptest.NewServer(SetupUsersAPIRouter(handler.NewUserHandler(uc, log), log))
	t.Cleanup(func() {
		srv.Close()
		_ = sqlDB.Close()
	})
	return srv
}

// browser drives the admin router with one session cookie.
type browser struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func (b *browser) do(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) action(path string, form url.Values) string {
	b.t.Helper()
	w := b.do(http.MethodPost, path, form, true)
	require.Equal(b.t, http.StatusOK, w.Code, w.Body.String())
	return w.Body.String()
}

func setupAdmin(t *testing.T, apiURL string) (*browser, *usersapi.Client) {
	log := zaptest.NewLogger(t)
	client := usersapi.NewClient(apiURL+"/api/users", 5*time.Second, log)

	list := userlist.New(client, session.NewMemoryStore[userlist.State](time.Hour), log)
	form := createform.New(client, session.NewMemoryStore[createform.State](time.Hour),
		func(ctx context.Context, sessionID string) error {
			_, err := list.OnUserCreated(ctx, sessionID)
			return err
		}, log)

	r := SetupAdminRouter(handler.NewAdminHandler(list, form, log), nil,
		middleware.SessionConfig{CookieName: cookieName, TTL: time.Hour}, log)
	return &browser{t: t, router: r}, client
}

func seed(t *testing.T, client *usersapi.Client, names ...string) {
	for _, n := range names {
		_, err := client.Create(context.Background(), domain.Record{FirstName: n, LastName: "Tester", Email: strings.ToLower(n) + "@example.com"})
		require.NoError(t, err)
	}
}

func TestAdminScreen_EndToEnd(t *testing.T) {
	api := setupUsersAPI(t, zaptest.NewLogger(t))
	b, client := setupAdmin(t, api.URL)
	seed(t, client, "Ada", "Alan", "Grace")

	// First visit initializes the list on page 0 of size 5.
	w := b.do(http.MethodGet, "/users", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "Ada")
	assert.Contains(t, page, "Grace")
	assert.Contains(t, page, "1&ndash;3 of 3")
	assert.Contains(t, page, `aria-label="Next page" disabled`)
	require.NotNil(t, b.cookie)

	// Create with every field empty; the list reloads at the same page.
	assert.Contains(t, b.action("/users/create/open", nil), "Add New User")
	body := b.action("/users/create/submit", url.Values{})
	assert.NotContains(t, body, "Add New User")
	assert.Contains(t, body, "1&ndash;4 of 4")

	// Select a row, open the prompt, cancel: nothing is deleted.
	users, err := client.List(context.Background(), domain.PageRequest{Page: 0, PageSize: 5})
	require.NoError(t, err)
	target := users.Users[0].ID

	body = b.action("/users/select", url.Values{"id": {target}})
	assert.Contains(t, body, `class="selected"`)

	body = b.action("/users/delete/open", url.Values{"id": {target}})
	assert.Contains(t, body, userlist.DeletePromptTitle)

	body = b.action("/users/delete/choose", url.Values{"choice": {"cancel"}})
	assert.NotContains(t, body, userlist.DeletePromptTitle)
	assert.NotContains(t, body, `class="selected"`)
	assert.Contains(t, body, "1&ndash;4 of 4")

	// Confirm deletes and reloads.
	b.action("/users/delete/open", url.Values{"id": {target}})
	body = b.action("/users/delete/choose", url.Values{"choice": {"confirm"}})
	assert.NotContains(t, body, userlist.DeletePromptTitle)
	assert.NotContains(t, body, "Ada")
	assert.Contains(t, body, "1&ndash;3 of 3")

	// Switch to pages of 10.
	body = b.action("/users/page", url.Values{"page": {"0"}, "pageSize": {"10"}})
	assert.Contains(t, body, `<option value="10" selected>`)
}

func TestAdminScreen_PlainFormPostRedirects(t *testing.T) {
	api := setupUsersAPI(t, zaptest.NewLogger(t))
	b, _ := setupAdmin(t, api.URL)

	b.do(http.MethodGet, "/users", nil, false)
	w := b.do(http.MethodPost, "/users/create/open", url.Values{}, false)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/users", w.Header().Get("Location"))

	w = b.do(http.MethodGet, "/users", nil, false)
	assert.Contains(t, w.Body.String(), "Add New User")
}

func TestAdminScreen_UsersAPIDown(t *testing.T) {
	api := setupUsersAPI(t, zaptest.NewLogger(t))
	b, client := setupAdmin(t, api.URL)
	seed(t, client, "Ada")

	b.do(http.MethodGet, "/users", nil, false)
	b.action("/users/create/open", nil)
	api.Close()

	body := b.action("/users/create/submit", url.Values{"firstName": {"Linus"}})
	assert.Contains(t, body, pkgerrors.MessageCreateFailed)
	assert.Contains(t, body, `value="Linus"`)

	body = b.action("/users/load", nil)
	assert.Contains(t, body, pkgerrors.MessageFetchFailed)
	assert.Contains(t, body, "Retry")
}

func TestAdminScreen_BadRequests(t *testing.T) {
	api := setupUsersAPI(t, zaptest.NewLogger(t))
	b, _ := setupAdmin(t, api.URL)
	b.do(http.MethodGet, "/users", nil, false)

	tests := []struct {
		name string
		path string
		form url.Values
	}{
		{name: "non numeric page", path: "/users/page", form: url.Values{"page": {"x"}, "pageSize": {"5"}}},
		{name: "unsupported page size", path: "/users/page", form: url.Values{"page": {"0"}, "pageSize": {"7"}}},
		{name: "unknown row", path: "/users/delete/open", form: url.Values{"id": {"nope"}}},
		{name: "prompt closed", path: "/users/delete/choose", form: url.Values{"choice": {"confirm"}}},
		{name: "form closed", path: "/users/create/field", form: url.Values{"name": {"email"}, "value": {"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := b.do(http.MethodPost, tt.path, tt.form, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAdminScreen_ResetStartsOver(t *testing.T) {
	api := setupUsersAPI(t, zaptest.NewLogger(t))
	b, _ := setupAdmin(t, api.URL)

	b.do(http.MethodGet, "/users", nil, false)
	w := b.do(http.MethodPost, "/users/reset", nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/users", w.Header().Get("HX-Redirect"))

	// Actions after a reset send the browser back to the screen.
	w = b.do(http.MethodPost, "/users/delete/open", url.Values{"id": {"x"}}, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestUsersAPI_Routes(t *testing.T) {
	log := zaptest.NewLogger(t)
	api := setupUsersAPI(t, log)

	for _, path := range []string{"/health", OpenAPIPath} {
		resp, err := http.Get(api.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, err := http.Get(api.URL + "/api/users?skip=-1&limit=5")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
