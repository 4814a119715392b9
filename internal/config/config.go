package config

import (
	"strings"
	"time"

	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/types"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds the full application configuration, loaded once at
// startup and injected everywhere else.
type Configuration struct {
	Server  ServerConfig  `mapstructure:"server"`
	Flow    FlowConfig    `mapstructure:"flow"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" default:":8080"`
}

// FlowConfig carries the Flow API credentials. Both keys are required for
// any provider call; the access service treats missing keys as a
// cannot-determine condition, never a hard failure.
type FlowConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	SecretKey string        `mapstructure:"secret_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Configured reports whether both Flow credentials are present.
func (c FlowConfig) Configured() bool {
	return c.APIKey != "" && c.SecretKey != ""
}

type AuthConfig struct {
	// Secret signs and verifies the HS256 bearer tokens on API routes.
	Secret string `mapstructure:"secret"`
}

type CacheConfig struct {
	// Type selects the cache backend: "inmemory" (default) or "redis".
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	UseTLS   bool          `mapstructure:"use_tls"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// NewConfig loads configuration from flowsub.yaml (optional) and FLOWSUB_*
// environment variables, with a .env file honored for local development.
func NewConfig() (*Configuration, error) {
	// Best effort; absence of a .env file is the normal production case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("flowsub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("FLOWSUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("flow.base_url", "https://www.flow.cl/api")
	v.SetDefault("flow.timeout", 20*time.Second)
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.timeout", 5*time.Second)
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("sentry.sample_rate", 1.0)
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures. Flow credentials are deliberately NOT required here:
// the access service fails closed without them.
func (c *Configuration) Validate() error {
	if c.Server.Address == "" {
		return ierr.NewError("server address is required").
			WithHint("Set server.address or FLOWSUB_SERVER_ADDRESS").
			Mark(ierr.ErrValidation)
	}
	if c.Cache.Type != "inmemory" && c.Cache.Type != "redis" {
		return ierr.NewErrorf("unknown cache type %q", c.Cache.Type).
			WithHint("cache.type must be inmemory or redis").
			Mark(ierr.ErrValidation)
	}
	if c.Flow.Timeout <= 0 {
		return ierr.NewError("flow timeout must be positive").
			WithHint("Set flow.timeout to a positive duration").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests and for the
// bootstrap global logger, without touching files or the environment.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server: ServerConfig{Address: ":8080"},
		Flow: FlowConfig{
			BaseURL: "https://www.flow.cl/api",
			Timeout: 20 * time.Second,
		},
		Cache:   CacheConfig{Type: "inmemory", Enabled: true},
		Logging: LoggingConfig{Level: types.LogLevelDebug},
	}
}
