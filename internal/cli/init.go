// Package cli consolidates the initialization shared by cmd/cra and
// cmd/cra-worker: logging, environment loading, configuration and the
// storage backend.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"cra/internal/config"
	"cra/internal/core"
	applog "cra/internal/log"
	"cra/internal/storage"
)

// SetupLogger initializes structured logging and installs it as the
// process default.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the configured KV backend, exiting the process on
// failure.
func InitStore(logger *applog.Logger, cfg *config.Config) storage.KV {
	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory store", applog.FieldBackend, cfg.DataBackend)
		return storage.NewMemoryStore()
	default:
		kv, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store",
				applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite store",
			applog.FieldBackend, cfg.DataBackend, "path", cfg.SQLiteDBPath)
		return kv
	}
}

// BuildCalendar applies the configured holiday overrides to the default
// French calendar.
func BuildCalendar(cfg *config.Config) *core.Calendar {
	if len(cfg.Holidays) == 0 {
		return core.DefaultCalendar()
	}
	return core.NewCalendar(cfg.Holidays, core.FrenchWeekdayNames, core.FrenchMonthNames)
}
