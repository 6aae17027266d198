package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const maxPort = 65535

var (
	ErrMissingURI      = errors.New("DB_URI is required")
	ErrInvalidPoolSize = errors.New("db max pool size must be positive")
	ErrInvalidPort     = errors.New("port must be a number within 1..65535")
)

type Config struct {
	Env             string         `yaml:"env"`              // Env is the current environment: local, development, production.
	Port            int            `yaml:"port"`             // Port is the API listen port.
	MetricsPort     int            `yaml:"metrics_port"`     // MetricsPort serves /metrics and /readyz.
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"` // ShutdownTimeout bounds graceful shutdown.
	Database        DatabaseConfig `yaml:"db"`               // Database holds the storage configuration.
}

// DatabaseConfig struct holds the configuration details for connecting to the employee storage.
type DatabaseConfig struct {
	URI            string        `yaml:"uri"`             // URI selects the backend by scheme: mongodb:// or postgres://.
	Name           string        `yaml:"name"`            // Name is the name of the database.
	MaxPoolSize    uint64        `yaml:"max_pool_size"`   // MaxPoolSize bounds the driver connection pool.
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // ConnectTimeout bounds connect and ping.
	QueryTimeout   time.Duration `yaml:"query_timeout"`   // QueryTimeout bounds a single listing request.
}

// Load reads the configuration from the environment, optionally layered over the YAML file
// named by CONFIG_PATH.
func Load() (*Config, error) {
	vpr := viper.New()

	defaultPort := 3000
	defaultMetricsPort := 9090
	defaultPoolSize := 10
	defaultTimeout := 10 * time.Second

	vpr.SetDefault("env", "local")
	vpr.SetDefault("port", defaultPort)
	vpr.SetDefault("metrics_port", defaultMetricsPort)
	vpr.SetDefault("shutdown_timeout", defaultTimeout)
	vpr.SetDefault("db.name", "employeestats")
	vpr.SetDefault("db.max_pool_size", defaultPoolSize)
	vpr.SetDefault("db.connect_timeout", defaultTimeout)
	vpr.SetDefault("db.query_timeout", defaultTimeout)

	bindings := map[string]string{
		"env":                "APP_ENV",
		"port":               "PORT",
		"metrics_port":       "METRICS_PORT",
		"shutdown_timeout":   "SHUTDOWN_TIMEOUT",
		"db.uri":             "DB_URI",
		"db.name":            "DB_NAME",
		"db.max_pool_size":   "DB_MAX_POOL_SIZE",
		"db.connect_timeout": "DB_CONNECT_TIMEOUT",
		"db.query_timeout":   "DB_QUERY_TIMEOUT",
	}
	for key, env := range bindings {
		if err := vpr.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Env:             vpr.GetString("env"),
		Port:            vpr.GetInt("port"),
		MetricsPort:     vpr.GetInt("metrics_port"),
		ShutdownTimeout: vpr.GetDuration("shutdown_timeout"),
		Database: DatabaseConfig{
			URI:            vpr.GetString("db.uri"),
			Name:           vpr.GetString("db.name"),
			ConnectTimeout: vpr.GetDuration("db.connect_timeout"),
			QueryTimeout:   vpr.GetDuration("db.query_timeout"),
		},
	}

	for env, port := range map[string]int{"PORT": cfg.Port, "METRICS_PORT": cfg.MetricsPort} {
		if port < 1 || port > maxPort {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPort, env)
		}
	}

	poolSize := vpr.GetInt64("db.max_pool_size")
	if poolSize <= 0 {
		return nil, ErrInvalidPoolSize
	}
	cfg.Database.MaxPoolSize = uint64(poolSize)

	if cfg.Database.URI == "" {
		return nil, ErrMissingURI
	}

	return cfg, nil
}

// MustLoad loads the configuration and panics if it is incomplete.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}
