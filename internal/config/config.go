package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HEC      HECConfig      `mapstructure:"hec"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	// AuthSecret signs control-API bearer tokens. Empty disables auth,
	// intended only for local testing.
	AuthSecret string `mapstructure:"auth_secret"`

	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

type HECConfig struct {
	URL           string        `mapstructure:"url"`
	Token         string        `mapstructure:"token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TLSSkipVerify bool          `mapstructure:"tls_skip_verify"`
}

type DeliveryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	BackoffInitial  time.Duration `mapstructure:"backoff_initial"`
	BackoffMax      time.Duration `mapstructure:"backoff_max"`
	EventsPerSecond float64       `mapstructure:"events_per_second"`
	Burst           int           `mapstructure:"burst"`
}

type ScheduleConfig struct {
	// FastFactor compresses dispatch time in fast mode; 1/60 turns each
	// logical minute into one wall-clock second.
	FastFactor float64 `mapstructure:"fast_factor"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8099)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.rate_limit_enabled", true)
	v.SetDefault("server.rate_limit_requests", 100)
	v.SetDefault("server.rate_limit_window", "1m")
	v.SetDefault("hec.url", "http://localhost:8088")
	v.SetDefault("hec.timeout", "10s")
	v.SetDefault("hec.tls_skip_verify", false)
	v.SetDefault("delivery.max_attempts", 3)
	v.SetDefault("delivery.backoff_initial", "500ms")
	v.SetDefault("delivery.backoff_max", "2s")
	v.SetDefault("delivery.events_per_second", 50)
	v.SetDefault("delivery.burst", 10)
	v.SetDefault("schedule.fast_factor", 1.0/60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/jarvis")
	}

	// Environment variables override
	v.SetEnvPrefix("JARVIS")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
