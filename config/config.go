package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"lotto/database"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds PostgreSQL connection configuration. Either a
// full URL or a base URL plus database name may be given.
type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	BaseURL string `mapstructure:"base_url"`
	Name    string `mapstructure:"name"`
}

// ConnectionURL resolves the effective database URL
func (c DatabaseConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	return database.ConstructDatabaseURL(c.BaseURL, c.Name)
}

// EngineConfig holds the privileged addresses and operational limits
// the settlement engine runs with
type EngineConfig struct {
	OperatorAddress string `mapstructure:"operator_address"`
	InjectorAddress string `mapstructure:"injector_address"`
	TreasuryAddress string `mapstructure:"treasury_address"`
	EngineAddress   string `mapstructure:"engine_address"`

	MinLotteryLength   time.Duration `mapstructure:"min_lottery_length"`
	MaxLotteryLength   time.Duration `mapstructure:"max_lottery_length"`
	MinTicketPrice     int64         `mapstructure:"min_ticket_price"`
	MaxTicketPrice     int64         `mapstructure:"max_ticket_price"`
	MaxTicketsPerBatch int           `mapstructure:"max_tickets_per_batch"`
}

// WorkerConfig holds the close-and-draw worker configuration
type WorkerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	AutoInjection bool          `mapstructure:"auto_injection"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("LOTTO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Engine defaults mirror a weekly-to-daily lottery cadence.
	v.SetDefault("engine.engine_address", "engine")
	v.SetDefault("engine.treasury_address", "treasury")
	v.SetDefault("engine.min_lottery_length", "4h")
	v.SetDefault("engine.max_lottery_length", "96h")
	v.SetDefault("engine.min_ticket_price", 1)
	v.SetDefault("engine.max_ticket_price", 1_000_000_000)
	v.SetDefault("engine.max_tickets_per_batch", 100)

	// Worker defaults
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.poll_interval", "1m")
	v.SetDefault("worker.auto_injection", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Database.URL == "" && (c.Database.BaseURL == "" || c.Database.Name == "") {
		return fmt.Errorf("database.url or database.base_url plus database.name is required")
	}

	if c.Engine.OperatorAddress == "" {
		return fmt.Errorf("engine.operator_address is required")
	}
	if c.Engine.EngineAddress == "" {
		return fmt.Errorf("engine.engine_address is required")
	}
	if c.Engine.TreasuryAddress == "" {
		return fmt.Errorf("engine.treasury_address is required")
	}
	if c.Engine.MinLotteryLength <= 0 || c.Engine.MaxLotteryLength < c.Engine.MinLotteryLength {
		return fmt.Errorf("engine lottery length bounds are inconsistent")
	}
	if c.Engine.MinTicketPrice < 1 || c.Engine.MaxTicketPrice < c.Engine.MinTicketPrice {
		return fmt.Errorf("engine ticket price bounds are inconsistent")
	}
	if c.Engine.MaxTicketsPerBatch < 1 {
		return fmt.Errorf("engine.max_tickets_per_batch must be at least 1")
	}

	if c.Worker.Enabled && c.Worker.PollInterval < time.Second {
		return fmt.Errorf("worker.poll_interval must be at least 1 second")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
