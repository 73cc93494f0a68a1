package config

import (
	"os"
	"strconv"
	"time"
)

type ConsoleConfig struct {
	CurrencySymbol   string
	DateLayout       string
	MinimumAge       int
	MaxLoginAttempts int
	LoginLockWindow  time.Duration
}

func LoadConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		CurrencySymbol:   getEnv("BANK_CURRENCY_SYMBOL", "R$"),
		DateLayout:       getEnv("BANK_DATE_LAYOUT", "02/01/2006"),
		MinimumAge:       getEnvAsInt("BANK_MINIMUM_AGE", 18),
		MaxLoginAttempts: getEnvAsInt("BANK_MAX_LOGIN_ATTEMPTS", 5),
		LoginLockWindow:  getEnvAsDuration("BANK_LOGIN_LOCK_WINDOW", 15*time.Minute),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
