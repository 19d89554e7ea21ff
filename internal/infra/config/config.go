package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultBirthdayFilePath    = "birthdays.json"
	defaultCronSpecSweep       = "0 * * * *" // hourly
	defaultLifeExpectancyYears = 80
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	TelegramToken       string
	BirthdayFilePath    string
	CronSpecSweep       string
	LifeExpectancyYears int
	LogLevel            string
	Environment         string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.BirthdayFilePath = os.Getenv("BIRTHDAY_FILE_PATH")
	if cfg.BirthdayFilePath == "" {
		cfg.BirthdayFilePath = defaultBirthdayFilePath
	}

	cfg.CronSpecSweep = os.Getenv("CRON_SPEC_SWEEP")
	if cfg.CronSpecSweep == "" {
		cfg.CronSpecSweep = defaultCronSpecSweep
	}

	cfg.LifeExpectancyYears = defaultLifeExpectancyYears
	if expectancyStr := os.Getenv("LIFE_EXPECTANCY_YEARS"); expectancyStr != "" {
		expectancy, err := strconv.Atoi(expectancyStr)
		if err != nil || expectancy <= 0 {
			return nil, fmt.Errorf("invalid LIFE_EXPECTANCY_YEARS: %q", expectancyStr)
		}
		cfg.LifeExpectancyYears = expectancy
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
