package user

import (
	domain "user-admin/internal/domain/user"
)

// MaxListLimit caps the number of users returned by one list call.
const MaxListLimit = 100

// CreateUserRequest represents the request payload for creating a new user.
// Fields are stored as sent; empty values are accepted.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	JobTitle  string `json:"jobTitle"`
	Gender    string `json:"gender"`
}

// CreateUserResponse is the created user, including its assigned ID.
type CreateUserResponse struct {
	User domain.Record
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string `validate:"required"`
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string `validate:"required"`
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User domain.Record
}

// ListUsersRequest selects a window of users by offset.
type ListUsersRequest struct {
	Skip  int `form:"skip" validate:"gte=0"`
	Limit int `form:"limit" validate:"gte=1"`
}

// ListUsersResponse is one window of users plus the total number stored.
type ListUsersResponse struct {
	Users []domain.Record
	Total int64
}
