package config_test

import (
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
)

// clearEnv blanks every variable the loader reads. Viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, env := range []string{
		"CONFIG_PATH", "APP_ENV", "PORT", "METRICS_PORT", "SHUTDOWN_TIMEOUT", "DB_URI", "DB_NAME",
		"DB_MAX_POOL_SIZE", "DB_CONNECT_TIMEOUT", "DB_QUERY_TIMEOUT",
	} {
		t.Setenv(env, "")
	}
}

func TestMustLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_URI", "mongodb://localhost:27017")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "employeestats", cfg.Database.Name)
	assert.Equal(t, uint64(10), cfg.Database.MaxPoolSize)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
}

func TestMustLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("METRICS_PORT", "9191")
	t.Setenv("DB_URI", "postgres://admin:adminpass@db:5432/stats")
	t.Setenv("DB_NAME", "testName")
	t.Setenv("DB_MAX_POOL_SIZE", "25")
	t.Setenv("DB_QUERY_TIMEOUT", "3s")

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, 9191, cfg.MetricsPort)
	assert.Equal(t, "postgres://admin:adminpass@db:5432/stats", cfg.Database.URI)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.Equal(t, uint64(25), cfg.Database.MaxPoolSize)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
}

func TestMustLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)
	clearEnv(t)

	file := filet.TmpFile(t, "", `
env: development
port: 4000
db:
  uri: mongodb://mongo:27017
  name: fromFile
  max_pool_size: 5
  connect_timeout: 2s
`)
	t.Setenv("CONFIG_PATH", file.Name())

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Database.URI)
	assert.Equal(t, "fromFile", cfg.Database.Name)
	assert.Equal(t, uint64(5), cfg.Database.MaxPoolSize)
	assert.Equal(t, 2*time.Second, cfg.Database.ConnectTimeout)
}

func TestMustLoad_EnvOverridesFile(t *testing.T) {
	defer filet.CleanUp(t)
	clearEnv(t)

	file := filet.TmpFile(t, "", "db:\n  uri: mongodb://mongo:27017\n  name: fromFile\n")
	t.Setenv("CONFIG_PATH", file.Name())
	t.Setenv("DB_NAME", "fromEnv")

	cfg := config.MustLoad()

	assert.Equal(t, "fromEnv", cfg.Database.Name)
}

func TestMustLoad_EmptyURI(t *testing.T) {
	clearEnv(t)

	assert.PanicsWithValue(t, "config error: DB_URI is required", func() {
		config.MustLoad()
	})
}

func TestMustLoad_InvalidPoolSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_URI", "mongodb://localhost:27017")
	t.Setenv("DB_MAX_POOL_SIZE", "0")

	assert.PanicsWithValue(t, "config error: db max pool size must be positive", func() {
		config.MustLoad()
	})
}

func TestLoad_InvalidPort(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{name: "non numeric api port", env: "PORT", value: "http"},
		{name: "zero api port", env: "PORT", value: "0"},
		{name: "api port above range", env: "PORT", value: "70000"},
		{name: "negative metrics port", env: "METRICS_PORT", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_URI", "mongodb://localhost:27017")
			t.Setenv(tt.env, tt.value)

			_, err := config.Load()

			require.ErrorIs(t, err, config.ErrInvalidPort)
			assert.ErrorContains(t, err, tt.env)
		})
	}
}

func TestLoad_MissingURI(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()

	require.ErrorIs(t, err, config.ErrMissingURI)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := config.Load()

	require.Error(t, err)
	assert.ErrorContains(t, err, "config file does not exist")
}
