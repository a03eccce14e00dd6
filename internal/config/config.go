package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int     `mapstructure:"timeoutSeconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL renders the connection string in the form the migration tool expects.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
	Issuer      string `mapstructure:"issuer" envconfig:"JWT_ISSUER"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type OutboxConfig struct {
	BatchSize       int           `mapstructure:"batch_size" envconfig:"OUTBOX_BATCH_SIZE"`
	PollInterval    time.Duration `mapstructure:"poll_interval" envconfig:"OUTBOX_POLL_INTERVAL"`
	MaxRetries      int           `mapstructure:"max_retries" envconfig:"OUTBOX_MAX_RETRIES"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" envconfig:"OUTBOX_RETRY_DELAY"`
	PublishChannel  string        `mapstructure:"publish_channel" envconfig:"OUTBOX_PUBLISH_CHANNEL"`
	HealthCheckPort int           `mapstructure:"health_check_port" envconfig:"OUTBOX_HEALTH_CHECK_PORT"`
}

type ReminderConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" envconfig:"REMINDER_POLL_INTERVAL"`
	LeadTime     time.Duration `mapstructure:"lead_time" envconfig:"REMINDER_LEAD_TIME"`
	BatchSize    int           `mapstructure:"batch_size" envconfig:"REMINDER_BATCH_SIZE"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

// LoadConfig reads config.yaml and then lets environment variables
// override individual values.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Server.RateLimitRPS == 0 {
		c.Server.RateLimitRPS = 100
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 200
	}
	if c.Outbox.BatchSize == 0 {
		c.Outbox.BatchSize = 100
	}
	if c.Outbox.PollInterval == 0 {
		c.Outbox.PollInterval = 5 * time.Second
	}
	if c.Outbox.MaxRetries == 0 {
		c.Outbox.MaxRetries = 3
	}
	if c.Outbox.RetryDelay == 0 {
		c.Outbox.RetryDelay = 5 * time.Second
	}
	if c.Outbox.PublishChannel == "" {
		c.Outbox.PublishChannel = "events"
	}
	if c.Outbox.HealthCheckPort == 0 {
		c.Outbox.HealthCheckPort = 8081
	}
	if c.Reminder.PollInterval == 0 {
		c.Reminder.PollInterval = time.Minute
	}
	if c.Reminder.LeadTime == 0 {
		c.Reminder.LeadTime = 24 * time.Hour
	}
	if c.Reminder.BatchSize == 0 {
		c.Reminder.BatchSize = 50
	}
}
