package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"user-admin/pkg/logger"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Database drivers for the development Users API
const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	UsersAPI  UsersAPIConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	DB        DatabaseConfig
	Logger    LoggerConfig
}

// AppConfig holds configuration for the HTTP servers
type AppConfig struct {
	AdminHTTPPort          string `mapstructure:"ADMIN_HTTP_PORT" validate:"required,numeric"`
	UsersAPIHTTPPort       string `mapstructure:"USERS_API_HTTP_PORT" validate:"required,numeric"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" validate:"min=1"`
}

// UsersAPIConfig holds configuration for the remote Users API client
type UsersAPIConfig struct {
	BaseURL        string `mapstructure:"USERS_API_BASE_URL" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"USERS_API_TIMEOUT_SECONDS" validate:"min=0"` // 0 keeps transport defaults
}

// SessionConfig holds configuration for per-browser screen state
type SessionConfig struct {
	Store        string `mapstructure:"SESSION_STORE" validate:"oneof=memory redis"`
	TTLSeconds   int    `mapstructure:"SESSION_TTL_SECONDS" validate:"min=60"`
	CookieName   string `mapstructure:"SESSION_COOKIE_NAME" validate:"required"`
	CookieSecure bool   `mapstructure:"SESSION_COOKIE_SECURE"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB" validate:"min=0"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES" validate:"min=0"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE" validate:"min=1"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN" validate:"min=0"`
}

// RateLimitConfig holds configuration for the mutation rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gt=0"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST" validate:"min=1"`
}

// DatabaseConfig holds configuration for the development Users API database
type DatabaseConfig struct {
	Driver          string `mapstructure:"DB_DRIVER" validate:"oneof=sqlite postgres"`
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	SQLitePath      string `mapstructure:"DB_SQLITE_PATH"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS" validate:"min=1"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME" validate:"min=0"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME" validate:"min=0"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS" validate:"min=0"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME" validate:"required"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.App.AdminHTTPPort = v.GetString("ADMIN_HTTP_PORT")
	config.App.UsersAPIHTTPPort = v.GetString("USERS_API_HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.UsersAPI.BaseURL = strings.TrimRight(v.GetString("USERS_API_BASE_URL"), "/")
	config.UsersAPI.TimeoutSeconds = v.GetInt("USERS_API_TIMEOUT_SECONDS")

	config.Session.Store = v.GetString("SESSION_STORE")
	config.Session.TTLSeconds = v.GetInt("SESSION_TTL_SECONDS")
	config.Session.CookieName = v.GetString("SESSION_COOKIE_NAME")
	config.Session.CookieSecure = v.GetBool("SESSION_COOKIE_SECURE")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST")

	config.DB.Driver = v.GetString("DB_DRIVER")
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.SQLitePath = v.GetString("DB_SQLITE_PATH")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADMIN_HTTP_PORT", "8080")
	v.SetDefault("USERS_API_HTTP_PORT", "8081")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("USERS_API_BASE_URL", "http://localhost:8081/api/users")
	v.SetDefault("USERS_API_TIMEOUT_SECONDS", 0)

	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_TTL_SECONDS", 3600)
	v.SetDefault("SESSION_COOKIE_NAME", "user_admin_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.SetDefault("DB_DRIVER", DBDriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "users_api")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "users.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	// Logger defaults
	env := v.GetString("APP_ENV")
	if env == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-admin")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Session.Store == SessionStoreRedis && (c.Redis.Host == "" || c.Redis.Port == "") {
		return errors.New("invalid configuration: REDIS_HOST and REDIS_PORT are required when SESSION_STORE=redis")
	}

	return nil
}

// UsesRedis reports whether the admin screen needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Session.Store == SessionStoreRedis || c.RateLimit.Enabled
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// Logging returns the logger settings for a binary named serviceName
func (c LoggerConfig) Logging(serviceName, env string) logger.Config {
	return logger.Config{
		Level:            c.Level,
		Format:           c.Format,
		OutputPath:       c.OutputPath,
		SlowQuerySeconds: c.SlowQuerySeconds,
		EnableSampling:   c.EnableSampling,
		ServiceName:      serviceName,
		ServiceVersion:   c.ServiceVersion,
		Environment:      env,
	}
}
