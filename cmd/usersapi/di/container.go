package di

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-admin/cmd/usersapi/infrastructure"
	"user-admin/internal/adapter/db/postgres"
	ginhandler "user-admin/internal/adapter/gin/handler"
	"user-admin/internal/config"
	"user-admin/internal/usecase/user"
)

// Container holds all dependencies of the development Users API
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	UserUC     user.Usecase
	GinHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := postgres.NewUserRepoPG(db, l)
	userUC := user.New(repo, l)

	return &Container{
		Config:     cfg,
		Logger:     l,
		DB:         db,
		UserUC:     userUC,
		GinHandler: ginhandler.NewUserHandler(userUC, l),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if err := infrastructure.CloseDatabase(c.DB); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
