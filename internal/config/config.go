package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Timesheet TimesheetConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// TimesheetConfig holds the engine settings and the schedules of its background jobs.
// Cron specs carry a leading seconds field.
type TimesheetConfig struct {
	Timezone            string
	Workers             int
	StandardHoursPerDay int
	RefreshBatchSize    int
	FinalizeCron        string
	RefreshCron         string
	ProvisionCron       string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, using environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	dbMaxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	dbMinConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris-timesheet"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}

	// JWT configuration
	accessTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRATION", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRATION: %w", err)
	}
	config.JWT = JWTConfig{
		Secret:         getEnv("JWT_SECRET_KEY", ""),
		AccessTokenTTL: accessTTL,
	}

	// Timesheet configuration
	workers, err := getEnvInt("TIMESHEET_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	standardHours, err := getEnvInt("TIMESHEET_STANDARD_HOURS", 8)
	if err != nil {
		return nil, err
	}
	batchSize, err := getEnvInt("TIMESHEET_REFRESH_BATCH_SIZE", 500)
	if err != nil {
		return nil, err
	}

	config.Timesheet = TimesheetConfig{
		Timezone:            getEnv("TIMESHEET_TIMEZONE", "Asia/Jakarta"),
		Workers:             workers,
		StandardHoursPerDay: standardHours,
		RefreshBatchSize:    batchSize,
		FinalizeCron:        getEnv("TIMESHEET_FINALIZE_CRON", "0 5 0 * * *"),
		RefreshCron:         getEnv("TIMESHEET_REFRESH_CRON", "0 */15 * * * *"),
		ProvisionCron:       getEnv("TIMESHEET_PROVISION_CRON", "0 0 1 1 * *"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := c.Timesheet.Location(); err != nil {
		return fmt.Errorf("invalid TIMESHEET_TIMEZONE: %w", err)
	}
	if c.Timesheet.Workers < 1 {
		return errors.New("TIMESHEET_WORKERS must be at least 1")
	}
	if c.Timesheet.StandardHoursPerDay < 1 || c.Timesheet.StandardHoursPerDay > 24 {
		return errors.New("TIMESHEET_STANDARD_HOURS must be between 1 and 24")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return errors.New("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	return nil
}

// Location loads the time zone punches and calendar dates are interpreted in.
func (t TimesheetConfig) Location() (*time.Location, error) {
	return time.LoadLocation(t.Timezone)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
