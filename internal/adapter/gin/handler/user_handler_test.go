package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-admin/internal/domain/user"
	usecase "user-admin/internal/usecase/user"
	pkgerrors "user-admin/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.GetUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GetUserResponse), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.DeleteUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *UserHandler, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	return r, handler, mockUsecase
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		body := domain.Record{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		jsonBody, _ := json.Marshal(body)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		}).Return(&usecase.CreateUserResponse{User: domain.Record{ID: "a1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/users", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp domain.Record
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "a1", resp.ID)
		assert.Equal(t, "Lovelace", resp.LastName)
	})

	t.Run("Client ID Ignored", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{}).
			Return(&usecase.CreateUserResponse{User: domain.Record{ID: "srv"}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{"id":"client"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"srv"`)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.POST("/users", handler.CreateUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/users", bytes.NewBufferString("invalid json"))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("internal error"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: "a1"}).
			Return(&usecase.GetUserResponse{User: domain.Record{ID: "a1", Email: "ada@example.com"}}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/users/a1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp domain.Record
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ada@example.com", resp.Email)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: "zz"}).
			Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/users/zz", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: "a1"}).
			Return(&usecase.DeleteUserResponse{ID: "a1"}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("DELETE", "/users/a1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"a1"}`, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: "gone"}).
			Return(nil, pkgerrors.NewNotFoundError("user", "user not found: id=gone"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("DELETE", "/users/gone", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{Skip: 5, Limit: 5}).
			Return(&usecase.ListUsersResponse{Users: []domain.Record{{ID: "f"}}, Total: 6}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/users?skip=5&limit=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp domain.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(6), resp.Total)
		assert.Equal(t, []domain.Record{{ID: "f"}}, resp.Users)
	})

	t.Run("Defaults", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{Skip: 0, Limit: 10}).
			Return(&usecase.ListUsersResponse{Users: []domain.Record{}, Total: 0}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[],"total":0}`, w.Body.String())
	})

	t.Run("Non Numeric Query", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.GET("/users", handler.ListUsers)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/users?skip=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Validation Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{Skip: -1, Limit: 5}).
			Return(nil, pkgerrors.NewValidationError("Skip", "Skip must be at least 0"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/users?skip=-1&limit=5", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
