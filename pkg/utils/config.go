package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Wizard   WizardConfig
}

type AppConfig struct {
	Name             string
	Port             string
	Debug            bool
	LogPath          string
	LoginRatePerMin  int
	AllowedOrigin    string
	RoomCacheTTL     time.Duration
	ShutdownDeadline time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// Enabled reports whether sessions should be kept in Postgres.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type UpstreamConfig struct {
	BaseURL    string
	StorageURL string
	// Zero leaves the transport default in place.
	Timeout time.Duration
}

type SessionConfig struct {
	ExpiryHours int
}

type WizardConfig struct {
	TTL         time.Duration
	Transition  time.Duration
	TaxRate     float64
	TaxInTotal  bool
	MaxGuests   int
	Placeholder string
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_NAME", "hostel-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	viper.SetDefault("ALLOWED_ORIGIN", "*")
	viper.SetDefault("ROOM_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("HOSTEL_API_URL", "https://apiddd.hostelstay.store/api")
	viper.SetDefault("HOSTEL_API_TIMEOUT_SECONDS", 0)
	viper.SetDefault("STORAGE_URL", "http://127.0.0.1:8000")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("WIZARD_TTL_MINUTES", 60)
	viper.SetDefault("WIZARD_TRANSITION_MS", 200)
	viper.SetDefault("BOOKING_TAX_RATE", 0.10)
	viper.SetDefault("BOOKING_TAX_IN_TOTAL", false)
	viper.SetDefault("BOOKING_MAX_GUESTS", 4)
	viper.SetDefault("PHOTO_PLACEHOLDER", "/placeholder.jpg")

	// .env is optional, plain environment variables are enough in containers
	if _, err := os.Stat(".env"); err == nil {
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:             viper.GetString("APP_NAME"),
			Port:             viper.GetString("PORT"),
			Debug:            viper.GetBool("DEBUG"),
			LogPath:          viper.GetString("LOG_PATH"),
			LoginRatePerMin:  viper.GetInt("LOGIN_RATE_PER_MINUTE"),
			AllowedOrigin:    viper.GetString("ALLOWED_ORIGIN"),
			RoomCacheTTL:     time.Duration(viper.GetInt("ROOM_CACHE_TTL_SECONDS")) * time.Second,
			ShutdownDeadline: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Upstream: UpstreamConfig{
			BaseURL:    viper.GetString("HOSTEL_API_URL"),
			StorageURL: viper.GetString("STORAGE_URL"),
			Timeout:    time.Duration(viper.GetInt("HOSTEL_API_TIMEOUT_SECONDS")) * time.Second,
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Wizard: WizardConfig{
			TTL:         time.Duration(viper.GetInt("WIZARD_TTL_MINUTES")) * time.Minute,
			Transition:  time.Duration(viper.GetInt("WIZARD_TRANSITION_MS")) * time.Millisecond,
			TaxRate:     viper.GetFloat64("BOOKING_TAX_RATE"),
			TaxInTotal:  viper.GetBool("BOOKING_TAX_IN_TOTAL"),
			MaxGuests:   viper.GetInt("BOOKING_MAX_GUESTS"),
			Placeholder: viper.GetString("PHOTO_PLACEHOLDER"),
		},
	}

	return config, nil
}
