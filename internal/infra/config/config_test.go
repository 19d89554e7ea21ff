package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("token is required", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "test-token")
		t.Setenv("BIRTHDAY_FILE_PATH", "")
		t.Setenv("CRON_SPEC_SWEEP", "")
		t.Setenv("LIFE_EXPECTANCY_YEARS", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("ENVIRONMENT", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "birthdays.json", cfg.BirthdayFilePath)
		assert.Equal(t, "0 * * * *", cfg.CronSpecSweep)
		assert.Equal(t, 80, cfg.LifeExpectancyYears)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "development", cfg.Environment)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "test-token")
		t.Setenv("BIRTHDAY_FILE_PATH", "/var/lib/bot/birthdays.json")
		t.Setenv("CRON_SPEC_SWEEP", "*/30 * * * *")
		t.Setenv("LIFE_EXPECTANCY_YEARS", "77")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/bot/birthdays.json", cfg.BirthdayFilePath)
		assert.Equal(t, "*/30 * * * *", cfg.CronSpecSweep)
		assert.Equal(t, 77, cfg.LifeExpectancyYears)
	})

	t.Run("invalid life expectancy", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "test-token")
		t.Setenv("LIFE_EXPECTANCY_YEARS", "eighty")

		_, err := Load()
		require.Error(t, err)
	})
}
