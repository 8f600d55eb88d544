package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seatgrid/internal/shared/constants"
)

func TestLoadPoolAndCacheDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS", "DB_CONN_MAX_LIFETIME",
		"REDIS_POOL_SIZE", "REDIS_MIN_IDLE_CONNS", "REDIS_AVAILABILITY_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)

	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5, cfg.Redis.MinIdleConns)

	// the cache default is the shared constant, not a second copy of the number
	assert.Equal(t, constants.TTL_AVAILABILITY, cfg.Redis.AvailabilityTTL)
}

func TestLoadPoolSettingsFromEnv(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("REDIS_POOL_SIZE", "4")

	cfg := Load()

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
}
