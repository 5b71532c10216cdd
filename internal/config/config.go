// Package config loads service settings from defaults, an optional config file and
// BOUCHAUTO_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeMemory   = "memory"
	ModePostgres = "postgres"
	ModeRemote   = "remote"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CatalogConfig struct {
	// Mode selects the data source: memory (embedded demo dataset), postgres or remote.
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("catalog.mode", ModeMemory)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.timeout", 5*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads the configuration. An empty path looks for config.yaml in the working
// directory and in /etc/bouchauto; a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOUCHAUTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bouchauto")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings required by the selected mode.
func (c Config) Validate() error {
	switch c.Catalog.Mode {
	case ModeMemory:
	case ModePostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required in postgres mode")
		}
	case ModeRemote:
		if c.Remote.BaseURL == "" {
			return errors.New("remote.base_url is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown catalog.mode %q", c.Catalog.Mode)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("ratelimit.rps and ratelimit.burst must be positive")
	}
	return nil
}
