package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Redis. Empty means no external cache: the service runs on the
	// in-process cache instead.
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Upstream stats API
	MLBAPIBaseURL string `mapstructure:"MLB_API_BASE_URL"`
	MLBAPIKey     string `mapstructure:"MLB_API_KEY"`
	Timezone      string `mapstructure:"TIMEZONE"`

	RateLimitInterval       time.Duration `mapstructure:"RATE_LIMIT_INTERVAL"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Cache TTLs, in seconds
	CacheTTLLiveGames     int `mapstructure:"CACHE_TTL_LIVE_GAMES"`
	CacheTTLUpcomingGames int `mapstructure:"CACHE_TTL_UPCOMING_GAMES"`
	CacheTTLFinishedGames int `mapstructure:"CACHE_TTL_FINISHED_GAMES"`
	CacheTTLTeamStats     int `mapstructure:"CACHE_TTL_TEAM_STATS"`
	CacheTTLPlayerStats   int `mapstructure:"CACHE_TTL_PLAYER_STATS"`

	// Feature flags
	EnablePrewarm      bool `mapstructure:"ENABLE_PREWARM"`
	EnableFallbackData bool `mapstructure:"ENABLE_FALLBACK_DATA"`

	// SMS Configuration
	SMSProvider      string `mapstructure:"SMS_PROVIDER"` // "mock", "twilio"
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("MLB_API_BASE_URL", "https://statsapi.mlb.com/api")
	viper.SetDefault("MLB_API_KEY", "")
	viper.SetDefault("TIMEZONE", "")
	viper.SetDefault("RATE_LIMIT_INTERVAL", "2s")
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)

	viper.SetDefault("CACHE_TTL_LIVE_GAMES", 60)
	viper.SetDefault("CACHE_TTL_UPCOMING_GAMES", 300)
	viper.SetDefault("CACHE_TTL_FINISHED_GAMES", 3600)
	viper.SetDefault("CACHE_TTL_TEAM_STATS", 86400)
	viper.SetDefault("CACHE_TTL_PLAYER_STATS", 3600)

	viper.SetDefault("ENABLE_PREWARM", true)
	viper.SetDefault("ENABLE_FALLBACK_DATA", true)

	// SMS defaults: mock provider so no real messages leave development
	viper.SetDefault("SMS_PROVIDER", "mock")
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_FROM_NUMBER", "")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves the configured timezone, defaulting to the system's.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
