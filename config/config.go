package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envPrefix = "PRICELENS"

// apiKeyEnvVars are checked in order each time the key is needed
var apiKeyEnvVars = []string{"PRICELENS_RAPIDAPI_API_KEY", "RAPIDAPI_KEY"}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RapidAPI  RapidAPIConfig  `mapstructure:"rapidapi"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port" validate:"required,numeric"`
	Environment    string   `mapstructure:"environment" validate:"oneof=development test staging production"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RapidAPIConfig holds product search API configuration.
// APIKey may be empty at load time; see APIKeyFunc.
type RapidAPIConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Host     string        `mapstructure:"host" validate:"required,hostname"`
	Country  string        `mapstructure:"country" validate:"required,len=2"`
	Language string        `mapstructure:"language" validate:"required"`
	Limit    int           `mapstructure:"limit" validate:"min=1,max=100"`
	SortBy   string        `mapstructure:"sort_by" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
}

// RateLimitConfig holds inbound rate limiting configuration.
// PerIP is requests per minute per client address; 0 disables limiting.
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip" validate:"min=0"`
	Burst int `mapstructure:"burst" validate:"min=0"`
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// APIKeyFunc returns a function that resolves the product search API key
// when called: environment first, then the loaded config value.
func (c *Config) APIKeyFunc() func() string {
	fallback := c.RapidAPI.APIKey
	return func() string {
		for _, name := range apiKeyEnvVars {
			if key := strings.TrimSpace(os.Getenv(name)); key != "" {
				return key
			}
		}
		return fallback
	}
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// PRICELENS_SERVER_PORT -> server.port
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(append([]string{"rapidapi.api_key"}, apiKeyEnvVars...)...); err != nil {
		return nil, fmt.Errorf("error binding api key: %w", err)
	}

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return gotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Product search API defaults
	v.SetDefault("rapidapi.api_key", "")
	v.SetDefault("rapidapi.base_url", "https://real-time-product-search.p.rapidapi.com")
	v.SetDefault("rapidapi.host", "real-time-product-search.p.rapidapi.com")
	v.SetDefault("rapidapi.country", "in")
	v.SetDefault("rapidapi.language", "en")
	v.SetDefault("rapidapi.limit", 50)
	v.SetDefault("rapidapi.sort_by", "BEST_MATCH")
	v.SetDefault("rapidapi.timeout", "30s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "./logs/pricelens.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// validate checks field rules and reports the first failing key
func validate(config *Config) error {
	err := structValidator.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%s failed %q check (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return err
}
