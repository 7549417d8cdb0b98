package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-admin/cmd/admin/di"
	ginrouter "user-admin/internal/adapter/gin/router"
	"user-admin/internal/config"
	"user-admin/pkg/logger"
	"user-admin/pkg/server"
)

// App represents the admin screen application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Container *di.Container
}

// New creates a new application instance
func New() (*App, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.NewWithConfig(cfg.Logger.Logging(cfg.Logger.ServiceName, getEnvironment()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Redis is pinged here, so bound it by the shutdown timeout.
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Container: container,
	}, nil
}

// Run serves the admin screen until ctx is canceled
func (a *App) Run(ctx context.Context) error {
	env := getEnvironment()
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", env),
		zap.String("users_api", a.Config.UsersAPI.BaseURL),
		zap.String("session_store", a.Config.Session.Store),
	)

	router := ginrouter.SetupAdminRouter(
		a.Container.AdminHandler,
		a.Container.RateLimiter,
		a.Container.SessionConfig(),
		a.Logger,
	)
	srv := server.New(":"+a.Config.App.AdminHTTPPort, router)

	runErr := server.Run(ctx, srv, time.Duration(a.Config.App.ShutdownTimeoutSeconds)*time.Second, a.Logger)
	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown releases the container resources and flushes the logger
func (a *App) shutdown() error {
	var errs []error

	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")
	if err := logger.Sync(a.Logger); err != nil {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// getConfigPath returns the configuration path
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

// getEnvironment returns the application environment
func getEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
