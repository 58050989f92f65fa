package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingStoreURL = errors.New("store_url is required (BLOG_STORE_URL)")
	ErrMissingStoreKey = errors.New("store_key is required (BLOG_STORE_KEY)")
)

type Config struct {
	StoreURL           string        `mapstructure:"store_url"`
	StoreKey           string        `mapstructure:"store_key"`
	StoreTimeout       time.Duration `mapstructure:"store_timeout"`
	Port               string        `mapstructure:"port"`
	PublicURL          string        `mapstructure:"public_url"`
	Debug              bool          `mapstructure:"debug"`
	LogLevel           string        `mapstructure:"log_level"`
	CorsAllowedOrigins []string      `mapstructure:"-"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store_url", "")
	v.SetDefault("store_key", "")
	v.SetDefault("store_timeout", "10s")
	v.SetDefault("port", "6835")
	v.SetDefault("public_url", "https://catalytiq.com")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("rate_limit_per_minute", 100)
}

// Load reads configuration from (in increasing priority) defaults, the
// optional config file, a .env file and BLOG_* environment variables.
// An empty path looks for catalytiq.yaml in the working directory.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalytiq")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.StoreURL = strings.TrimSpace(cfg.StoreURL)
	cfg.StoreKey = strings.TrimSpace(cfg.StoreKey)
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.CorsAllowedOrigins = splitCSV(v.GetString("cors_origins"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	if c.StoreURL == "" {
		return ErrMissingStoreURL
	}
	if c.StoreKey == "" {
		return ErrMissingStoreKey
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store_timeout must be positive, got %s", c.StoreTimeout)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
