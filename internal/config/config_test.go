package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:        "production",
		Port:       "8000",
		DBDriver:   "postgres",
		DBSSLMode:  "require",
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		DBPassword: "secure-password",
	}
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid production", func(*Config) {}, false},
		{"default jwt secret", func(c *Config) { c.JWTSecret = defaultJWTSecret }, true},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"weak db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disabled", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"sqlite in production", func(c *Config) { c.DBDriver = "sqlite" }, true},
		{"development allows defaults", func(c *Config) {
			c.Env = "development"
			c.JWTSecret = defaultJWTSecret
			c.DBSSLMode = "disable"
			c.DBPassword = "password"
		}, false},
		{"unknown driver", func(c *Config) { c.Env = "test"; c.DBDriver = "mysql" }, true},
		{"missing port", func(c *Config) { c.Port = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("PORT", "9001")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "9001", c.Port)
	assert.Equal(t, 10, c.DefaultPageLimit)
	assert.False(t, c.IsProduction())
}

func TestLoadConfig_MissingProfileFile(t *testing.T) {
	defer viper.Reset()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	t.Setenv("APP_ENV", "staging")
	_, err = LoadConfig()
	assert.Error(t, err)
}
