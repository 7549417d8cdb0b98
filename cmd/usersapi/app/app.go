package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-admin/cmd/usersapi/di"
	ginrouter "user-admin/internal/adapter/gin/router"
	"user-admin/internal/config"
	"user-admin/pkg/logger"
	"user-admin/pkg/server"
)

// serviceName tags the logs of this binary
const serviceName = "users-api"

// App represents the development Users API application
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

	l, err := logger.NewWithConfig(cfg.Logger.Logging(serviceName, getEnvironment()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Container: container,
	}, nil
}

// Run serves the Users API until ctx is canceled
func (a *App) Run(ctx context.Context) error {
	env := getEnvironment()
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.Logger.Info("starting application",
		zap.String("service", serviceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", env),
		zap.String("db_driver", a.Config.DB.Driver),
	)

	router := ginrouter.SetupUsersAPIRouter(a.Container.GinHandler, a.Logger)
	srv := server.New(":"+a.Config.App.UsersAPIHTTPPort, router)

	runErr := server.Run(ctx, srv, time.Duration(a.Config.App.ShutdownTimeoutSeconds)*time.Second, a.Logger)

	a.Logger.Info("closing container resources...")
	if err := a.Container.Close(); err != nil {
		a.Logger.Error("failed to close container", zap.Error(err))
		if runErr == nil {
			runErr = fmt.Errorf("container close: %w", err)
		}
	}

	a.Logger.Info("application shutdown complete")
	if err := logger.Sync(a.Logger); err != nil && runErr == nil {
		runErr = fmt.Errorf("logger sync: %w", err)
	}
	return runErr
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
