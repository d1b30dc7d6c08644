package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	NATSURL     string `mapstructure:"NATS_URL"`

	// DemoMode lets sign-in with an unknown email fabricate a demo profile.
	DemoMode bool `mapstructure:"DEMO_MODE"`
	SeedData bool `mapstructure:"SEED_DATA"`

	PaymentStageDelay   time.Duration `mapstructure:"PAYMENT_STAGE_DELAY"`
	RegistrationTimeout time.Duration `mapstructure:"REGISTRATION_TIMEOUT"`
	PendingReapAfter    time.Duration `mapstructure:"PENDING_REAP_AFTER"`
	JoinRatePerMinute   int           `mapstructure:"JOIN_RATE_PER_MINUTE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var AppConfig *Config

var keys = []string{
	"HTTP_ADDR", "DATABASE_URL", "JWT_SECRET", "REDIS_URL", "NATS_URL",
	"DEMO_MODE", "SEED_DATA",
	"PAYMENT_STAGE_DELAY", "REGISTRATION_TIMEOUT", "PENDING_REAP_AFTER", "JOIN_RATE_PER_MINUTE",
	"LOG_LEVEL", "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DEMO_MODE", false)
	v.SetDefault("SEED_DATA", false)
	v.SetDefault("PAYMENT_STAGE_DELAY", time.Second)
	v.SetDefault("REGISTRATION_TIMEOUT", 30*time.Second)
	v.SetDefault("PENDING_REAP_AFTER", 10*time.Minute)
	v.SetDefault("JOIN_RATE_PER_MINUTE", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	cfg, err := Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about during Unmarshal.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.PaymentStageDelay < 0 {
		return errors.New("PAYMENT_STAGE_DELAY must not be negative")
	}
	if c.RegistrationTimeout <= 0 {
		return errors.New("REGISTRATION_TIMEOUT must be positive")
	}
	if c.PendingReapAfter < c.RegistrationTimeout {
		return errors.New("PENDING_REAP_AFTER must be at least REGISTRATION_TIMEOUT")
	}
	if c.JoinRatePerMinute <= 0 {
		return errors.New("JOIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}
