package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-admin/internal/domain/user"
	pkgerrors "user-admin/pkg/errors"
)

// UserRepoPG implements the user Repository with GORM. It runs against
// PostgreSQL in deployments and SQLite for local runs and tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
	now func() time.Time
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log, now: time.Now}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string    `gorm:"primaryKey;size:36"` // UUIDv4 assigned on insert
	FirstName string    `gorm:"not null;default:''"`
	LastName  string    `gorm:"not null;default:''"`
	Email     string    `gorm:"not null;default:''"`
	JobTitle  string    `gorm:"not null;default:''"`
	Gender    string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null;index"` // List order
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m UserSchema) toRecord() user.Record {
	return user.Record{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		JobTitle:  m.JobTitle,
		Gender:    m.Gender,
	}
}

// Create inserts a new user and returns its generated ID.
func (r *UserRepoPG) Create(ctx context.Context, u *user.Record) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	model := UserSchema{
		ID:        uuid.NewString(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		JobTitle:  u.JobTitle,
		Gender:    u.Gender,
		CreatedAt: r.now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return model.ID, nil
}

// Delete removes a user by ID. A missing ID is a NotFoundError.
func (r *UserRepoPG) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid user id")
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.Record, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	rec := model.toRecord()
	return &rec, nil
}

// List returns up to limit users after the first skip, oldest first.
func (r *UserRepoPG) List(ctx context.Context, skip, limit int) ([]user.Record, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.Int("skip", skip), zap.Int("limit", limit))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.Record, len(models))
	for i, model := range models {
		users[i] = model.toRecord()
	}
	return users, nil
}

// Count returns the number of stored users.
func (r *UserRepoPG) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count users in db", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}
