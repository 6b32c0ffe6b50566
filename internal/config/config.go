package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Logger  Logger  `mapstructure:"logger"`
	Server  Server  `mapstructure:"server"`
	Storage Storage `mapstructure:"storage"`
	Journal Journal `mapstructure:"journal"`
	Client  Client  `mapstructure:"client"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Storage selects the slot backend.
type Storage struct {
	Driver string `mapstructure:"driver"` // sqlite, bolt or memory
	DSN    string `mapstructure:"dsn"`
	Slot   string `mapstructure:"slot"`
}

// Journal holds the record store and form options.
type Journal struct {
	DateFormat       string   `mapstructure:"date_format"`
	Timezone         string   `mapstructure:"timezone"`
	MaxCommentLength int      `mapstructure:"max_comment_length"`
	Strategies       []string `mapstructure:"strategies"`
	Results          []string `mapstructure:"results"`
}

// Client holds the configuration for the REST client used in remote mode.
type Client struct {
	BaseURL        string        `mapstructure:"base_url"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	MaxRetries     int           `mapstructure:"max_retries"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Location resolves the configured timezone. An empty value means local time.
func (j Journal) Location() (*time.Location, error) {
	if j.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(j.Timezone)
}

// LoadConfig reads configuration from config.yml under path, if present, and
// from environment variables. Every key has a default so a missing file is
// not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("server.port", 8080)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "tradechecker.db")
	v.SetDefault("storage.slot", "trades")

	v.SetDefault("journal.date_format", "1/2/2006")
	v.SetDefault("journal.timezone", "")
	v.SetDefault("journal.max_comment_length", 1000)
	v.SetDefault("journal.strategies", []string{"Strategy A", "Strategy B", "Strategy C", "Strategy D", "Strategy E"})
	v.SetDefault("journal.results", []string{"Win", "Loss", "Break Even", "Partial Win", "Partial Loss"})

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.rate_limit", 20)      // requests per second
	v.SetDefault("client.rate_limit_burst", 5) // burst size
	v.SetDefault("client.max_retries", 3)
	v.SetDefault("client.timeout", 10*time.Second)
}
