package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-admin/internal/domain/user"
	pkgerrors "user-admin/pkg/errors"
	"user-admin/pkg/logger"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, u *domain.Record) (string, error)       // Create a new user and return its ID
	GetByID(ctx context.Context, id string) (*domain.Record, error)     // Retrieve user by ID
	Delete(ctx context.Context, id string) error                        // Delete user by ID
	List(ctx context.Context, skip, limit int) ([]domain.Record, error) // List users in creation order
	Count(ctx context.Context) (int64, error)                           // Count all users
}

// usecase implements the user operations of the development Users API.
type usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *usecase {
	return &usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError(validationErrors[0].Field(), strings.Join(messages, ", "))
}

// CreateUser stores a new user. The server assigns the ID.
func (uc *usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("email", in.Email))

	rec := domain.Record{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		JobTitle:  in.JobTitle,
		Gender:    in.Gender,
	}
	id, err := uc.repo.Create(ctx, &rec)
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}
	rec.ID = id

	return &CreateUserResponse{User: rec}, nil
}

// DeleteUser deletes a user by ID.
func (uc *usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log).With(zap.String("id", in.ID))
	log.Info("deleting user")

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("delete user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		var notFound *pkgerrors.NotFoundError
		if errors.As(err, &notFound) {
			log.Warn("user to delete not found")
			return nil, err
		}
		log.Error("failed to delete user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to delete user", err)
	}

	return &DeleteUserResponse{ID: in.ID}, nil
}

// GetUser retrieves a user by ID.
func (uc *usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log).With(zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("get user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		var notFound *pkgerrors.NotFoundError
		if errors.As(err, &notFound) {
			return nil, err
		}
		log.Error("failed to get user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return &GetUserResponse{User: *u}, nil
}

// ListUsers returns limit users after the first skip, with the total count.
// A limit above MaxListLimit is lowered to it.
func (uc *usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("list users validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if in.Limit > MaxListLimit {
		in.Limit = MaxListLimit
	}

	log.Debug("listing users", zap.Int("skip", in.Skip), zap.Int("limit", in.Limit))

	users, err := uc.repo.List(ctx, in.Skip, in.Limit)
	if err != nil {
		log.Error("failed to list users", zap.Int("skip", in.Skip), zap.Int("limit", in.Limit), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	total, err := uc.repo.Count(ctx)
	if err != nil {
		log.Error("failed to count users", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to count users", err)
	}

	if users == nil {
		users = []domain.Record{}
	}
	return &ListUsersResponse{Users: users, Total: total}, nil
}
