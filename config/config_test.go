package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_TTL_HOURS", "72")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, "user_profiles", cfg.Upload.Folder)
	assert.Equal(t, StorageBackendMinio, cfg.Storage.Backend)
	assert.Equal(t, MQBackendNone, cfg.MQ.Backend)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "  s3cret  ")
	t.Setenv("JWT_TTL_HOURS", "24")
	t.Setenv("UPLOAD_TIMEOUT", "5s")
	t.Setenv("STORAGE_BACKEND", "GCS")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Upload.Timeout)
	assert.Equal(t, StorageBackendGCS, cfg.Storage.Backend)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestGetEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("TP_INT", "abc")
	t.Setenv("TP_BOOL", "maybe")
	t.Setenv("TP_DUR", "-3s")

	assert.Equal(t, 7, getEnvInt("TP_INT", 7))
	assert.True(t, getEnvBool("TP_BOOL", true))
	assert.Equal(t, time.Minute, getEnvDuration("TP_DUR", time.Minute))
}
