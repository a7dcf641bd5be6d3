package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"` // current application environment (local, dev, production)
	TelegramAPIToken string    `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB        `mapstructure:"database"`
	Scheduler        Scheduler `mapstructure:"scheduler"`
	Digest           Digest    `mapstructure:"digest"`
	Content          Content   `mapstructure:"content"`
	HTTP             HTTP      `mapstructure:"http"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                                  // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"gte=1"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" validate:"gte=0"` // maximum lifetime of a single connection
	ConnectAttempts uint64        `mapstructure:"connect_attempts" validate:"gte=1"`  // pings before giving up on startup
}

// Scheduler configures the intake reminder sweep.
type Scheduler struct {
	Timezone       string        `mapstructure:"timezone" validate:"required"`
	SweepSpec      string        `mapstructure:"sweep_spec" validate:"required"`
	Tolerance      time.Duration `mapstructure:"tolerance" validate:"gte=0"`
	RegimenTimeout time.Duration `mapstructure:"regimen_timeout" validate:"gt=0"`
	MaxConcurrent  int           `mapstructure:"max_concurrent" validate:"gte=1"`
}

// Digest configures the morning digest.
type Digest struct {
	Time          string        `mapstructure:"time" validate:"required,datetime=15:04"`
	WeatherCities []string      `mapstructure:"weather_cities"`
	DefaultSign   string        `mapstructure:"default_sign" validate:"required"`
	MaxConcurrent int           `mapstructure:"max_concurrent" validate:"gte=1"`
	SendTimeout   time.Duration `mapstructure:"send_timeout" validate:"gt=0"`
}

// Content holds endpoints of the digest content sources.
type Content struct {
	WeatherURL    string        `mapstructure:"weather_url" validate:"omitempty,url"`
	WeatherAPIKey string        `mapstructure:"-"` // loaded from environment, weather is skipped without it
	FiatURL       string        `mapstructure:"fiat_url" validate:"omitempty,url"`
	CryptoURL     string        `mapstructure:"crypto_url" validate:"omitempty,url"`
	HoroscopeURL  string        `mapstructure:"horoscope_url" validate:"omitempty,url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries       uint64        `mapstructure:"retries"`
}

// HTTP configures the ops endpoint.
type HTTP struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// Location resolves the configured scheduler zone.
func (s Scheduler) Location() (*time.Location, error) {
	return entities.ParseTimezoneLocation(s.Timezone)
}

// Sign returns the zodiac sign used for users who did not pick one.
func (d Digest) Sign() (entities.ZodiacSign, error) {
	sign, ok := entities.ParseZodiacSign(d.DefaultSign)
	if !ok {
		return "", fmt.Errorf("%w: unknown default sign %q", ErrInvalidConfig, d.DefaultSign)
	}
	return sign, nil
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("openweather_api_key", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("scheduler.timezone", "TIMEZONE", "SCHEDULER_TIMEZONE")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Content.WeatherAPIKey = v.GetString("openweather_api_key")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.connect_attempts", 10)

	v.SetDefault("scheduler.timezone", entities.DefaultTimezone)
	v.SetDefault("scheduler.sweep_spec", "*/30 * * * *")
	v.SetDefault("scheduler.tolerance", "15m")
	v.SetDefault("scheduler.regimen_timeout", "10s")
	v.SetDefault("scheduler.max_concurrent", 10)

	v.SetDefault("digest.time", "09:00")
	v.SetDefault("digest.weather_cities", []string{"Moscow"})
	v.SetDefault("digest.default_sign", "овен")
	v.SetDefault("digest.max_concurrent", 10)
	v.SetDefault("digest.send_timeout", "10s")

	v.SetDefault("content.timeout", "10s")
	v.SetDefault("content.retries", 2)

	v.SetDefault("http.addr", ":8080")
}

// Validate checks field constraints and resolves the zone and the default sign.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Digest.Sign(); err != nil {
		return err
	}
	return nil
}
