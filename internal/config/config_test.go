package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secret")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":3004", cfg.AppPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.MongoURI)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AppPort:   ":3004",
			JWTSecret: "secret",
			TokenTTL:  time.Hour,
			Database:  DatabaseConfig{Driver: "memory"},
			Logger:    LoggerConfig{Level: "info", Format: "json"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"missing secret":   func(c *Config) { c.JWTSecret = "" },
		"zero ttl":         func(c *Config) { c.TokenTTL = 0 },
		"negative ttl":     func(c *Config) { c.TokenTTL = -time.Minute },
		"unknown driver":   func(c *Config) { c.Database.Driver = "oracle" },
		"sqlite no dsn":    func(c *Config) { c.Database.Driver = "sqlite" },
		"mongo no uri":     func(c *Config) { c.Database.Driver = "mongo" },
		"bad log level":    func(c *Config) { c.Logger.Level = "verbose" },
		"bad log format":   func(c *Config) { c.Logger.Format = "xml" },
		"missing app port": func(c *Config) { c.AppPort = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
