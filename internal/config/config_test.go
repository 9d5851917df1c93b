package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, StorageFile, cfg.StorageBackend)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "https://api.unionbakery.example")
	t.Setenv("STOREFRONT_STORAGE", "redis")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.unionbakery.example", cfg.APIBaseURL)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "not a url")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_UnknownStorageBackend(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE", "postgres")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_NonPositiveTimeout(t *testing.T) {
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "0s")

	_, err := Load()

	assert.Error(t, err)
}
