package usersapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-admin/internal/domain/user"
	"user-admin/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/users", 0, zaptest.NewLogger(t))
}

func TestClient_List_SendsSkipAndLimit(t *testing.T) {
	tests := []struct {
		name      string
		page      domain.PageRequest
		wantSkip  string
		wantLimit string
	}{
		{name: "first page", page: domain.PageRequest{Page: 0, PageSize: 5}, wantSkip: "0", wantLimit: "5"},
		{name: "second page", page: domain.PageRequest{Page: 1, PageSize: 5}, wantSkip: "5", wantLimit: "5"},
		{name: "third page of ten", page: domain.PageRequest{Page: 2, PageSize: 10}, wantSkip: "20", wantLimit: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/users", r.URL.Path)
				assert.Equal(t, tt.wantSkip, r.URL.Query().Get("skip"))
				assert.Equal(t, tt.wantLimit, r.URL.Query().Get("limit"))
				_, _ = io.WriteString(w, `{"users":[{"id":"1","firstName":"Ada"}],"total":11}`)
			})

			page, err := client.List(context.Background(), tt.page)
			require.NoError(t, err)
			assert.Equal(t, int64(11), page.Total)
			require.Len(t, page.Users, 1)
			assert.Equal(t, "Ada", page.Users[0].FirstName)
		})
	}
}

func TestClient_List_NullUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"users":null,"total":0}`)
	})

	page, err := client.List(context.Background(), domain.DefaultPageRequest())
	require.NoError(t, err)
	assert.NotNil(t, page.Users)
	assert.Empty(t, page.Users)
}

func TestClient_Create_OmitsID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		assert.False(t, hasID)
		assert.Equal(t, "", body["firstName"])
		assert.Equal(t, "eng", body["jobTitle"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"new-id","jobTitle":"eng"}`)
	})

	created, err := client.Create(context.Background(), domain.Record{ID: "ignored", JobTitle: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
}

func TestClient_Delete_EscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/users/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Delete(context.Background(), "a/b"))
}

func TestClient_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	err := client.Delete(context.Background(), "1")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "nope", statusErr.Body)
}

func TestClient_ForwardsRequestAndSessionIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(logger.RequestIDHeader))
		assert.Equal(t, "sess-42", r.Header.Get(logger.SessionIDHeader))
		_, _ = io.WriteString(w, `{"users":[],"total":0}`)
	})

	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	ctx = logger.ContextWithSessionID(ctx, "sess-42")
	_, err := client.List(ctx, domain.DefaultPageRequest())
	require.NoError(t, err)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, 0, zaptest.NewLogger(t))
	_, err := client.List(context.Background(), domain.DefaultPageRequest())
	assert.Error(t, err)
}

func TestClient_BadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"users":`)
	})

	_, err := client.List(context.Background(), domain.DefaultPageRequest())
	assert.ErrorContains(t, err, "failed to decode response")
}
