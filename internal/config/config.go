// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for the HTTP server and stream timing.
type Config struct {
	HTTPAddr        string
	RowCount        int
	SlowDelay       time.Duration
	CloseGrace      time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	if ms < 0 {
		ms = defMs
	}
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from the environment with defaults. A .env
// file in the working directory is applied first if one exists.
func Load() Config {
	_ = godotenv.Load()
	rows := atoienv("ROW_COUNT", 6)
	if rows < 1 {
		rows = 6
	}
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":9219"),
		RowCount:        rows,
		SlowDelay:       durenvms("SLOW_DELAY_MS", 3000),
		CloseGrace:      durenvms("CLOSE_GRACE_MS", 100),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
}
