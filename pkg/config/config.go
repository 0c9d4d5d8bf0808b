package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries every setting the engine needs. It is loaded once and
// passed into constructors; nothing reads viper after startup.
type Config struct {
	// Server
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	CorsOrigins string `mapstructure:"CORS_ORIGINS"`

	// Redis (optional hot cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Data directory for persisted snapshots
	DataDir string `mapstructure:"DATA_DIR"`

	// External feeds
	ESPNScoreboardURL string `mapstructure:"ESPN_SCOREBOARD_URL"`
	SavantBaseURL     string `mapstructure:"SAVANT_BASE_URL"`
	OddsAPIBaseURL    string `mapstructure:"ODDS_API_BASE_URL"`
	OddsAPIKey        string `mapstructure:"ODDS_API_KEY"`
	OddsSportKey      string `mapstructure:"ODDS_SPORT_KEY"`
	OddsRegions       string `mapstructure:"ODDS_REGIONS"`
	OddsMarkets       string `mapstructure:"ODDS_MARKETS"`
	WeatherAPIURL     string `mapstructure:"WEATHER_API_URL"`
	WeatherAPIKey     string `mapstructure:"WEATHER_API_KEY"`

	// Fetch policy
	FetchRetries      int           `mapstructure:"FETCH_RETRIES"`
	FetchRetryDelay   time.Duration `mapstructure:"FETCH_RETRY_DELAY"`
	FetchTimeout      time.Duration `mapstructure:"FETCH_TIMEOUT"`
	ProviderRateLimit int           `mapstructure:"PROVIDER_RATE_LIMIT"`

	// Modeling
	MatchMinScore     int     `mapstructure:"MATCH_MIN_SCORE"`
	EstPitcherInnings float64 `mapstructure:"EST_PITCHER_INNINGS"`
	CandidateBatters  int     `mapstructure:"CANDIDATE_BATTERS"`

	// Scheduling
	CronSpec     string        `mapstructure:"CRON_SPEC"`
	CycleTimeout time.Duration `mapstructure:"CYCLE_TIMEOUT"`
}

// LoadConfig reads .env-style configuration with sane defaults.
func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("ESPN_SCOREBOARD_URL", "https://site.api.espn.com/apis/site/v2/sports/baseball/mlb/scoreboard")
	viper.SetDefault("SAVANT_BASE_URL", "https://baseballsavant.mlb.com/leaderboard/custom")
	viper.SetDefault("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4")
	viper.SetDefault("ODDS_API_KEY", "")
	viper.SetDefault("ODDS_SPORT_KEY", "baseball_mlb")
	viper.SetDefault("ODDS_REGIONS", "us")
	viper.SetDefault("ODDS_MARKETS", "playerprops")
	viper.SetDefault("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("WEATHER_API_KEY", "")
	viper.SetDefault("FETCH_RETRIES", 3)
	viper.SetDefault("FETCH_RETRY_DELAY", "1s")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("PROVIDER_RATE_LIMIT", 10) // requests per second
	viper.SetDefault("MATCH_MIN_SCORE", 70)
	viper.SetDefault("EST_PITCHER_INNINGS", 5.0)
	viper.SetDefault("CANDIDATE_BATTERS", 9)
	viper.SetDefault("CRON_SPEC", "0 13 * * *") // daily, 13:00 UTC
	viper.SetDefault("CYCLE_TIMEOUT", "10m")

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

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
