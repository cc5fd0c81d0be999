package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env     string `mapstructure:"APP_ENV"`
	AppHost string `mapstructure:"APP_HOST"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	MigrationsDir     string        `mapstructure:"MIGRATIONS_DIR"`
	MigrateOnStart    bool          `mapstructure:"MIGRATE_ON_START"`

	// Shared secret of the identity provider that signs session tokens.
	AuthJWTSecret string `mapstructure:"AUTH_JWT_SECRET"`

	// Optional, dashboard stats are not cached when empty.
	RedisURL      string        `mapstructure:"REDIS_URL"`
	StatsCacheTTL time.Duration `mapstructure:"STATS_CACHE_TTL"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`

	AssistantRateLimit  int           `mapstructure:"ASSISTANT_RATE_LIMIT"`
	AssistantRateWindow time.Duration `mapstructure:"ASSISTANT_RATE_WINDOW"`

	// Comma separated, "*" allows any origin.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

// Load reads .env (without overriding the real environment) and then the
// process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_HOST", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("MIGRATIONS_DIR", "./migrations")
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("STATS_CACHE_TTL", 30*time.Second)
	v.SetDefault("REQUEST_TIMEOUT", 15*time.Second)
	v.SetDefault("READ_TIMEOUT", 3*time.Second)
	v.SetDefault("ASSISTANT_RATE_LIMIT", 30)
	v.SetDefault("ASSISTANT_RATE_WINDOW", time.Minute)
	v.SetDefault("CORS_ORIGINS", "*")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET environment variable is not set")
	}
	return nil
}
