package user

import "context"

// Usecase defines the interface for the user operations served by the
// development Users API.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
}
