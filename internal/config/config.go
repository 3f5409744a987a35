package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/menuflash/internal/logger"
)

type Config struct {
	Addr               string
	DBPath             string
	MenuPath           string
	LogLevel           string
	AutoAdvanceDelayMs int
	SessionTTLMinutes  int
	SessionSweepMins   int
	ImportWorkerCount  int
	ImportQueueSize    int
	RateLimitRPS       int
	RateLimitBurst     int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", "127.0.0.1:8080"),
		DBPath:             envOr("DB_PATH", "file:menuflash.db"),
		MenuPath:           envOr("MENU_PATH", "data/menu.json"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		AutoAdvanceDelayMs: envIntOr("AUTO_ADVANCE_DELAY_MS", 2000),
		SessionTTLMinutes:  envIntOr("SESSION_TTL_MINUTES", 120),
		SessionSweepMins:   envIntOr("SESSION_SWEEP_MINUTES", 10),
		ImportWorkerCount:  envIntOr("IMPORT_WORKER_COUNT", 1),
		ImportQueueSize:    envIntOr("IMPORT_QUEUE_SIZE", 8),
		RateLimitRPS:       envIntOr("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     envIntOr("RATE_LIMIT_BURST", 40),
	}
}

// Validate reports every invalid setting in a single error.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch ext := strings.ToLower(filepath.Ext(c.MenuPath)); {
	case strings.TrimSpace(c.MenuPath) == "":
		errs = append(errs, errors.New("MENU_PATH cannot be empty"))
	case ext != ".json" && ext != ".xlsx":
		errs = append(errs, fmt.Errorf("MENU_PATH must be a .json or .xlsx file, got %q", c.MenuPath))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.AutoAdvanceDelayMs < 0 || c.AutoAdvanceDelayMs > 60000 {
		errs = append(errs, fmt.Errorf("AUTO_ADVANCE_DELAY_MS must be between 0 and 60000, got %d", c.AutoAdvanceDelayMs))
	}
	if c.SessionTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes))
	}
	if c.SessionSweepMins <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_SWEEP_MINUTES must be positive, got %d", c.SessionSweepMins))
	}
	if c.ImportWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_WORKER_COUNT must be positive, got %d", c.ImportWorkerCount))
	}
	if c.ImportQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_QUEUE_SIZE must be positive, got %d", c.ImportQueueSize))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimitRPS))
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least RATE_LIMIT_RPS, got %d", c.RateLimitBurst))
	}

	return errors.Join(errs...)
}

func (c Config) AutoAdvanceDelay() time.Duration {
	return time.Duration(c.AutoAdvanceDelayMs) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.SessionSweepMins) * time.Minute
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
