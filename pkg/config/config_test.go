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

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 2, cfg.Feed.PageSize)
	assert.Equal(t, "feed", cfg.S3.Bucket)
	assert.Equal(t, "feed-posts", cfg.Google.PubSubTopic)
	assert.Empty(t, cfg.S3.Host)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_ALLOW_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("FEED_PAGE_SIZE", "10")
	t.Setenv("FEED_SWEEP_GRACE", "2h")
	t.Setenv("S3_HOST", "minio:9000")
	t.Setenv("S3_USE_SSL", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 10, cfg.Feed.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.Feed.SweepGrace)
	assert.Equal(t, "minio:9000", cfg.S3.Host)
	assert.False(t, cfg.S3.UseSSL)
}

func TestLoad_NonPositivePageSize(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Feed.PageSize)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "many")

	_, err := Load()
	assert.Error(t, err)
}
