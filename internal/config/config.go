package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the full application configuration. It is loaded once at
// startup and treated as immutable for the process lifetime.
type Config struct {
	// Relay connection
	RelayURL string `validate:"required,url"`

	// World identity
	WorldName   string `validate:"required"`
	WorldURL    string `validate:"required,url"`
	DisplayName string `validate:"required"`

	// Status server
	HTTPPort int `validate:"gte=1,lte=65535"`

	// Database
	DBUser     string `validate:"required"`
	DBPassword string `validate:"required"`
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required"`
	DBName     string `validate:"required"`

	// Game rules
	MaxInventorySlots int           `validate:"gt=0"`
	GuestMaxSlots     int           `validate:"gt=0"`
	MaxStackSize      int           `validate:"gt=0"`
	PassportMaxAge    time.Duration `validate:"gt=0"`

	// Guest mode
	GuestModeEnabled bool
	GuestCanTrade    bool

	// Reputation
	ReputationDefault   float64
	ReputationThreshold float64

	// Sessions
	SessionTimeout  time.Duration `validate:"gt=0"`
	CleanupInterval time.Duration `validate:"gt=0"`

	// Audit log
	LogSuspicious      bool
	AuditRetentionDays int `validate:"gt=0"`

	// Logging
	LogLevel    string
	LogFormat   string
	Environment string

	// Optional Discord linking bot; disabled when the token is empty.
	DiscordToken string
	DiscordAppID string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		RelayURL:    getEnv("RELAY_URL", DefaultRelayURL),
		WorldName:   getEnv("WORLD_NAME", DefaultWorldName),
		WorldURL:    getEnv("WORLD_URL", DefaultWorldURL),
		DisplayName: getEnv("DISPLAY_NAME", DefaultDisplayName),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "waystation"),

		GuestModeEnabled: getEnvBool("GUEST_MODE_ENABLED", true),
		GuestCanTrade:    getEnvBool("GUEST_CAN_TRADE", false),
		LogSuspicious:    getEnvBool("LOG_SUSPICIOUS", true),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),

		DiscordToken: getEnv("DISCORD_TOKEN", ""),
		DiscordAppID: getEnv("DISCORD_APP_ID", ""),
	}

	var err error
	if cfg.HTTPPort, err = getEnvInt("HTTP_PORT", DefaultHTTPPort); err != nil {
		return nil, err
	}
	if cfg.MaxInventorySlots, err = getEnvInt("MAX_INVENTORY_SLOTS", DefaultMaxInventorySlots); err != nil {
		return nil, err
	}
	if cfg.GuestMaxSlots, err = getEnvInt("GUEST_MAX_SLOTS", DefaultGuestMaxSlots); err != nil {
		return nil, err
	}
	if cfg.MaxStackSize, err = getEnvInt("MAX_STACK_SIZE", DefaultMaxStackSize); err != nil {
		return nil, err
	}
	if cfg.AuditRetentionDays, err = getEnvInt("AUDIT_RETENTION_DAYS", DefaultAuditRetentionDays); err != nil {
		return nil, err
	}
	if cfg.PassportMaxAge, err = getEnvDuration("PASSPORT_MAX_AGE", DefaultPassportMaxAge); err != nil {
		return nil, err
	}
	if cfg.SessionTimeout, err = getEnvDuration("SESSION_TIMEOUT", DefaultSessionTimeout); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = getEnvDuration("CLEANUP_INTERVAL", DefaultCleanupInterval); err != nil {
		return nil, err
	}
	if cfg.ReputationDefault, err = getEnvFloat("REPUTATION_DEFAULT", DefaultReputation); err != nil {
		return nil, err
	}
	if cfg.ReputationThreshold, err = getEnvFloat("REPUTATION_THRESHOLD", DefaultReputationThreshold); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
