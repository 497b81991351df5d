package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys read by the server
const (
	EnvAddr           = "TC_ADDR"
	EnvConfig         = "TC_CONFIG"
	EnvBroadcastEvery = "TC_BROADCAST_EVERY"
	EnvLogLevel       = "TC_LOG_LEVEL"
)

// ServerSettings configures cmd/server
type ServerSettings struct {
	Addr           string
	BalancePath    string
	BroadcastEvery int // ticks between state broadcasts
	LogLevel       slog.Level
}

// LoadEnv loads .env files into the process environment. Missing files are
// skipped; variables already set win over file values.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env %s: %w", f, err)
		}
		slog.Debug("loaded environment file", "path", f)
	}
	return nil
}

// ServerSettingsFromEnv reads server settings, applying defaults for unset keys
func ServerSettingsFromEnv() (ServerSettings, error) {
	s := ServerSettings{
		Addr:           ":8080",
		BroadcastEvery: 1,
		LogLevel:       slog.LevelInfo,
	}
	if v := os.Getenv(EnvAddr); v != "" {
		s.Addr = v
	}
	s.BalancePath = os.Getenv(EnvConfig)
	if v := os.Getenv(EnvBroadcastEvery); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return s, fmt.Errorf("%s must be a positive integer, got %q", EnvBroadcastEvery, v)
		}
		s.BroadcastEvery = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := ParseLogLevel(v)
		if err != nil {
			return s, err
		}
		s.LogLevel = lvl
	}
	return s, nil
}

// ParseLogLevel maps debug|info|warn|error to a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
