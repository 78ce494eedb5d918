package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port string `mapstructure:"PORT"`

	DBDriver    string `mapstructure:"DB_DRIVER"` // postgres or sqlite
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	AccessTokenSecret string `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessTokenCookie string `mapstructure:"ACCESS_TOKEN_COOKIE"`

	// Redis backs the token revocation list; empty disables it.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// NATS receives reaction events; empty disables publishing.
	NatsURL        string        `mapstructure:"NATS_URL"`
	EventQueueSize int           `mapstructure:"EVENT_QUEUE_SIZE"`
	ShutdownGrace  time.Duration `mapstructure:"SHUTDOWN_GRACE"`
}

// Load reads configuration from the environment on top of defaults.
// A .env file, when present, is expected to be loaded into the environment
// by the caller beforehand.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=blogreact port=5432 sslmode=disable")
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_COOKIE", "accessToken")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_URL", "")
	v.SetDefault("EVENT_QUEUE_SIZE", 1000)
	v.SetDefault("SHUTDOWN_GRACE", "10s")
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.EventQueueSize <= 0 {
		c.EventQueueSize = 1000
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}
