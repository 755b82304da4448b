package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "/media/", cfg.MediaURL)
	assert.Equal(t, "recipes.published", cfg.NATSSubject)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadConfig_InvalidInteger(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "eighty")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			HTTPPort:       8000,
			LogLevel:       "info",
			LogFormat:      "json",
			JWTSecret:      testSecret,
			TokenTTL:       time.Hour,
			StorageBackend: "local",
			MediaRoot:      "./media",
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("ShortSecret", func(t *testing.T) {
		cfg := base()
		cfg.JWTSecret = "short"
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = "ftp"
		assert.ErrorContains(t, cfg.Validate(), "STORAGE_BACKEND")
	})

	t.Run("S3WithoutBucket", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = "s3"
		assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := base()
		cfg.LogLevel = "loud"
		assert.ErrorContains(t, cfg.Validate(), "LOG_LEVEL")
	})
}
