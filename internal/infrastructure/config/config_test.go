package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "cocktail-ingest", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Queue.Workers)
	assert.Equal(t, 100, cfg.Queue.MaxSize)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, "json", cfg.Tags.StructuredJSON)
	assert.Equal(t, "encyclopedia", cfg.Tags.Encyclopedia)
	assert.Equal(t, "handbook", cfg.Tags.Handbook)
	assert.False(t, cfg.DocumentSource.Enabled)
	assert.Equal(t, 50, cfg.DocumentSource.PageSize)
	assert.Equal(t, "cocktails:pending", cfg.Review.Key)
}

func TestLoadConfigFromEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("DOCUMENT_SOURCE_ENABLED", "true")
	t.Setenv("DOCUMENT_SOURCE_URL", "http://paperless.local")
	t.Setenv("APP_QUEUE_WORKERS", "3")
	t.Setenv("APP_TAGS_HANDBOOK", "ocr-handbook")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.DocumentSource.Enabled)
	assert.Equal(t, "http://paperless.local", cfg.DocumentSource.BaseURL)
	assert.Equal(t, 3, cfg.Queue.Workers)
	assert.Equal(t, "ocr-handbook", cfg.Tags.Handbook)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Queue:  QueueConfig{Workers: 1, MaxSize: 1},
		}
	}

	require.NoError(t, validateConfig(valid()))

	noPort := valid()
	noPort.Server.Port = 0
	assert.Error(t, validateConfig(noPort))

	noWorkers := valid()
	noWorkers.Queue.Workers = 0
	assert.Error(t, validateConfig(noWorkers))

	source := valid()
	source.DocumentSource.Enabled = true
	assert.Error(t, validateConfig(source))
	source.DocumentSource.BaseURL = "http://x"
	source.DocumentSource.PageSize = 10
	assert.NoError(t, validateConfig(source))

	review := valid()
	review.Review.Enabled = true
	assert.Error(t, validateConfig(review))
	review.Review.RedisAddr = "localhost:6379"
	review.Review.Key = "k"
	assert.NoError(t, validateConfig(review))
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "abcd...6789", maskToken("abcdef0123456789"))
}
