package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the api-server.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Store    StoreConfig    `mapstructure:"store"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Market   MarketConfig   `mapstructure:"market"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"` // "local" or "prod"
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "postgres"
	Path    string `mapstructure:"path"`    // user blob location for the file backend
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // empty means in-memory sessions
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MarketConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	MaxChangePct float64       `mapstructure:"max_change_pct"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// Load reads configuration from a .env file (if present), environment
// variables, and defaults, in increasing order of precedence for the env
// vars. Keys map dot-to-underscore, e.g. "store.path" -> STORE_PATH.
func Load() (*Config, error) {
	v := viper.New()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.env", "local")

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.path", "data/users.json")

	v.SetDefault("postgres.dsn", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("market.tick_interval", 5*time.Second)
	v.SetDefault("market.max_change_pct", 2.0)

	v.SetDefault("cors.origins", []string{"http://localhost:5173"})

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v,
		"app.port", "app.env",
		"store.backend", "store.path",
		"postgres.dsn",
		"redis.addr", "redis.password", "redis.db",
		"market.tick_interval", "market.max_change_pct",
		"cors.origins",
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the file backend")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Market.TickInterval <= 0 {
		return fmt.Errorf("market.tick_interval must be positive")
	}
	if c.Market.MaxChangePct <= 0 {
		return fmt.Errorf("market.max_change_pct must be positive")
	}

	return nil
}

func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		// BindEnv only errors on an empty key.
		_ = v.BindEnv(key)
	}
}
