package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv removes all variables the config reads so defaults apply.
func clearEnv() {
	for _, key := range []string{
		"PORT", "TEMP_DIR", "MAX_UPLOAD_BYTES", "FFMPEG_PATH",
		"SESSION_TTL", "SESSION_SWEEP_INTERVAL",
		"S3_BUCKET", "S3_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"LOG_FORMAT", "LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/tmp/audiopolish", cfg.TempDir)
	assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("TEMP_DIR", "/custom/temp")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "1m")
	t.Setenv("FFMPEG_PATH", "/usr/local/bin/ffmpeg")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/custom/temp", cfg.TempDir)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpegPath)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("non-positive size limit", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_BYTES", "0")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMaxUploadBytes)
	})

	t.Run("non-positive session TTL", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "-1m")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSessionTTL)
	})
}

func TestS3Enabled(t *testing.T) {
	cfg := &Config{S3Bucket: "bucket"}
	assert.False(t, cfg.S3Enabled(), "region is required too")

	cfg.S3Region = "eu-west-1"
	assert.True(t, cfg.S3Enabled())
}

func TestNewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		assert.NotNil(t, cfg.NewLogger())
	})

	t.Run("json format", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		assert.NotNil(t, cfg.NewLogger())
	})
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Port:               8080,
		AWSAccessKeyID:     "AKIA-SECRET",
		AWSSecretAccessKey: "very-secret",
	}

	s := cfg.String()
	assert.NotContains(t, s, "AKIA-SECRET")
	assert.NotContains(t, s, "very-secret")
}
