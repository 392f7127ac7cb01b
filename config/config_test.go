package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, time.UTC, cfg.App.Location)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 5*time.Minute, cfg.Cache.AvailabilityTTL)
	assert.Equal(t, 10, cfg.RateLimit.BookingPerMinute)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("AVAILABILITY_CACHE_TTL", "not-a-duration")
	t.Setenv("BOOKING_RATE_PER_MINUTE", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 5*time.Minute, cfg.Cache.AvailabilityTTL, "invalid durations fall back")
	assert.Equal(t, 2, cfg.RateLimit.BookingPerMinute)
}

func TestLoadConfig_Errors(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)

	viper.Reset()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionStrings(t *testing.T) {
	db := DBConfig{Host: "db", Port: "5432", User: "app", Password: "pw", Name: "booking", SSLMode: "disable"}

	assert.Equal(t, "host=db user=app password=pw dbname=booking port=5432 sslmode=disable TimeZone=UTC", db.DSN("UTC"))
	assert.Equal(t, "pgx5://app:pw@db:5432/booking?sslmode=disable", db.URL())
}
