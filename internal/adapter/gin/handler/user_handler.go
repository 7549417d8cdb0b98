package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-admin/internal/domain/user"
	"user-admin/internal/usecase/user"
	pkgerrors "user-admin/pkg/errors"
	"user-admin/pkg/logger"
)

// UserHandler serves the JSON Users API
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// ListUsersQuery represents the query string of GET /api/users
type ListUsersQuery struct {
	Skip  int `form:"skip,default=0"`
	Limit int `form:"limit,default=10"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req domain.Record
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		JobTitle:  req.JobTitle,
		Gender:    req.Gender,
	})
	if err != nil {
		log.Error("CreateUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp.User)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp.User)
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	logger.WithContext(c.Request.Context(), h.log).Info("DeleteUser request", zap.String("id", id))

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id": resp.ID,
	})
}

// ListUsers handles GET /api/users?skip=&limit=
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_query",
			Message: "skip and limit must be integers",
		})
		return
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.Page{
		Users: resp.Users,
		Total: resp.Total,
	})
}

// handleError converts usecase errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var statuser pkgerrors.HTTPStatuser
	if !errors.As(err, &statuser) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := statuser.HTTPStatus()
	switch status {
	case http.StatusNotFound:
		c.JSON(status, ErrorResponse{Error: "not_found", Message: err.Error()})
	case http.StatusBadRequest:
		c.JSON(status, ErrorResponse{Error: "invalid_input", Message: err.Error()})
	default:
		c.JSON(status, ErrorResponse{Error: "internal_error", Message: "An internal error occurred"})
	}
}
