// config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL  = "http://private-9aad-note10.apiary-mock.com/notes"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
	DefaultAddr     = ":8080"
	DefaultRoot     = "./notes"
)

type Config struct {
	// Client side.
	BaseURL  string
	Timeout  time.Duration
	LogLevel string

	// Mock backend.
	Addr        string
	Root        string
	DatabaseURL string
}

// Load reads the given dotenv files (".env" when none are named) into the
// environment, without overriding variables already set, and then builds a
// Config from NOTES_* variables. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		BaseURL:     getenv("NOTES_BASE_URL", DefaultBaseURL),
		Timeout:     DefaultTimeout,
		LogLevel:    getenv("NOTES_LOG_LEVEL", DefaultLogLevel),
		Addr:        getenv("NOTES_ADDR", DefaultAddr),
		Root:        getenv("NOTES_ROOT", DefaultRoot),
		DatabaseURL: os.Getenv("NOTES_DATABASE_URL"),
	}

	if v := os.Getenv("NOTES_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("NOTES_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
