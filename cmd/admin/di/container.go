package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-admin/cmd/admin/infrastructure"
	ginhandler "user-admin/internal/adapter/gin/handler"
	"user-admin/internal/adapter/gin/middleware"
	"user-admin/internal/adapter/session"
	"user-admin/internal/adapter/usersapi"
	"user-admin/internal/config"
	"user-admin/internal/usecase/createform"
	"user-admin/internal/usecase/userlist"
	redisclient "user-admin/pkg/redis"
)

// Redis key prefixes of the session stores
const (
	listStatePrefix = "useradmin:list"
	formStatePrefix = "useradmin:form"
)

// Container holds all dependencies of the admin screen
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	RedisClient  *redisclient.Client
	UsersAPI     *usersapi.Client
	List         *userlist.Controller
	Form         *createform.Controller
	RateLimiter  *middleware.RateLimiter
	AdminHandler *ginhandler.AdminHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	if cfg.UsesRedis() {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
	}

	c.UsersAPI = usersapi.NewClient(
		cfg.UsersAPI.BaseURL,
		time.Duration(cfg.UsersAPI.TimeoutSeconds)*time.Second,
		l,
	)

	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second
	var (
		listStore session.Store[userlist.State]
		formStore session.Store[createform.State]
	)
	if cfg.Session.Store == config.SessionStoreRedis {
		listStore = session.NewRedisStore[userlist.State](c.RedisClient.Client, listStatePrefix, ttl, l)
		formStore = session.NewRedisStore[createform.State](c.RedisClient.Client, formStatePrefix, ttl, l)
	} else {
		listStore = session.NewMemoryStore[userlist.State](ttl)
		formStore = session.NewMemoryStore[createform.State](ttl)
	}

	c.List = userlist.New(c.UsersAPI, listStore, l)
	c.Form = createform.New(c.UsersAPI, formStore, func(ctx context.Context, sessionID string) error {
		_, err := c.List.OnUserCreated(ctx, sessionID)
		return err
	}, l)

	// Initialize rate limiter; without Redis it lets everything through
	var scripter redis.Scripter
	if c.RedisClient != nil {
		scripter = c.RedisClient.Client
	}
	c.RateLimiter = middleware.NewRateLimiter(
		scripter,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	c.AdminHandler = ginhandler.NewAdminHandler(c.List, c.Form, l)

	return c, nil
}

// SessionConfig returns the session cookie settings
func (c *Container) SessionConfig() middleware.SessionConfig {
	return middleware.SessionConfig{
		CookieName: c.Config.Session.CookieName,
		Secure:     c.Config.Session.CookieSecure,
		TTL:        time.Duration(c.Config.Session.TTLSeconds) * time.Second,
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}
