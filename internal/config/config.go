package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Telegram     TelegramConfig     `yaml:"telegram"`
	Database     DatabaseConfig     `yaml:"database"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Email        EmailConfig        `yaml:"email"`
	Log          LogConfig          `yaml:"log"`
}

// TelegramConfig contains the bot credentials and the ids of the gated
// channel and the administrator account
type TelegramConfig struct {
	Token         string        `yaml:"token"`
	AdminID       int64         `yaml:"admin_id"`
	ChannelID     int64         `yaml:"channel_id"`
	Mode          string        `yaml:"mode"` // "polling" or "webhook"
	PollTimeout   int           `yaml:"poll_timeout_seconds"`
	ActionTimeout int           `yaml:"action_timeout_seconds"`
	Webhook       WebhookConfig `yaml:"webhook"`
}

// WebhookConfig contains webhook-mode settings
type WebhookConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	URL        string `yaml:"url"` // public base URL Telegram delivers updates to
}

// DatabaseConfig contains member store settings for either backend
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "postgres" or "sqlite"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	Path     string `yaml:"path"` // sqlite file path
}

// SubscriptionConfig contains the subscription plan settings
type SubscriptionConfig struct {
	PlanDays           []int `yaml:"plan_days"`
	ExpiringWindowDays int   `yaml:"expiring_window_days"`
	PageSize           int   `yaml:"page_size"`
}

// SchedulerConfig contains cron specs for scheduled jobs
type SchedulerConfig struct {
	CheckSubscriptions string `yaml:"check_subscriptions"`
	Timezone           string `yaml:"timezone"`
}

// EmailConfig contains settings for the optional emailed sweep summary
type EmailConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	AdminEmail     string `yaml:"admin_email"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Telegram
	if val := os.Getenv("BOT_TOKEN"); val != "" {
		c.Telegram.Token = val
	}
	if val := os.Getenv("ADMIN_ID"); val != "" {
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.Telegram.AdminID = id
		}
	}
	if val := os.Getenv("CHANNEL_ID"); val != "" {
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.Telegram.ChannelID = id
		}
	}

	// Database
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		c.Database.Path = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
}

// applyDefaults fills in settings that may be omitted from the config file
func (c *Config) applyDefaults() {
	if c.Telegram.Mode == "" {
		c.Telegram.Mode = "polling"
	}
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = 30
	}
	if c.Telegram.ActionTimeout == 0 {
		c.Telegram.ActionTimeout = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/gatekeeper.db"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if len(c.Subscription.PlanDays) == 0 {
		c.Subscription.PlanDays = []int{7, 14, 30, 60, 90}
	}
	if c.Subscription.ExpiringWindowDays == 0 {
		c.Subscription.ExpiringWindowDays = 10
	}
	if c.Subscription.PageSize == 0 {
		c.Subscription.PageSize = 20
	}
	if c.Scheduler.CheckSubscriptions == "" {
		// Daily at 04:00 in the configured timezone
		c.Scheduler.CheckSubscriptions = "0 0 4 * * *"
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "UTC"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that required configuration values are present
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram admin_id is required")
	}
	if c.Telegram.ChannelID == 0 {
		return fmt.Errorf("telegram channel_id is required")
	}
	switch c.Telegram.Mode {
	case "polling":
	case "webhook":
		if c.Telegram.Webhook.ListenAddr == "" || c.Telegram.Webhook.URL == "" {
			return fmt.Errorf("webhook mode requires webhook.listen_addr and webhook.url")
		}
	default:
		return fmt.Errorf("unknown telegram mode %q", c.Telegram.Mode)
	}
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.Host == "" || c.Database.Database == "" || c.Database.User == "" {
			return fmt.Errorf("postgres driver requires database host, user and database name")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	for _, d := range c.Subscription.PlanDays {
		if d <= 0 {
			return fmt.Errorf("subscription plan_days must be positive, got %d", d)
		}
	}
	if c.Email.Enabled {
		if c.Email.SendGridAPIKey == "" || c.Email.FromEmail == "" || c.Email.AdminEmail == "" {
			return fmt.Errorf("email requires sendgrid_api_key, from_email and admin_email")
		}
	}
	return nil
}

// GetDatabaseConnectionString builds a lib/pq connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, c.Database.SSLMode)
}
