package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "DATABASE_URL", "JWT_SECRET", "DB_MAX_CONNS", "DB_MIN_CONNS"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.True(t, cfg.MemoryStore())
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 12*time.Hour, cfg.JWTTokenTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/autoparts")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("AUDIT_COMPRESS_THRESHOLD", "64")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.Development())
	assert.False(t, cfg.MemoryStore())
	assert.True(t, cfg.AuthEnabled())
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 64, cfg.AuditCompressThreshold)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("APP_PORT", "http")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_MIN_CONNS", "10")
	t.Setenv("DB_MAX_CONNS", "5")
	_, err = FromEnv()
	assert.Error(t, err)
}
