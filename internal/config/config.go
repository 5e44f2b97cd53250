// Package config loads flowdesk settings from the environment and an
// optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Paths left empty are resolved under
// ~/.flowdesk by Load.
type Config struct {
	DBPath         string        `env:"FLOWDESK_DB"`
	Secret         string        `env:"FLOWDESK_SECRET"`
	SessionFile    string        `env:"FLOWDESK_SESSION_FILE"`
	SessionTTL     time.Duration `env:"FLOWDESK_SESSION_TTL" envDefault:"720h"`
	AdminEmails    []string      `env:"FLOWDESK_ADMIN_EMAILS" envSeparator:","`
	LogLevel       string        `env:"FLOWDESK_LOG_LEVEL" envDefault:"warn"`
	LogUseCases    bool          `env:"FLOWDESK_LOG_USE_CASES"`
	TraceFile      string        `env:"FLOWDESK_TRACE_FILE"`
	NotifyInterval time.Duration `env:"FLOWDESK_NOTIFY_INTERVAL" envDefault:"30s"`
	Currency       string        `env:"FLOWDESK_CURRENCY" envDefault:"BRL"`
}

// Load reads envFile when it exists, then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() error {
	if c.DBPath == "" || c.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		base := filepath.Join(home, ".flowdesk")
		if c.DBPath == "" {
			c.DBPath = filepath.Join(base, "flowdesk.db")
		}
		if c.SessionFile == "" {
			c.SessionFile = filepath.Join(base, "session")
		}
	}

	emails := c.AdminEmails[:0]
	for _, e := range c.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	c.AdminEmails = emails
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if c.NotifyInterval <= 0 {
		return fmt.Errorf("FLOWDESK_NOTIFY_INTERVAL must be positive, got %s", c.NotifyInterval)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("FLOWDESK_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("FLOWDESK_CURRENCY must be a 3-letter code, got %q", c.Currency)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("FLOWDESK_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// DataDir is the directory holding the database.
func (c Config) DataDir() string {
	return filepath.Dir(c.DBPath)
}

// SigningSecret returns Secret, or the key stored in the data directory,
// creating it on first use.
func (c Config) SigningSecret() (string, error) {
	if c.Secret != "" {
		return c.Secret, nil
	}
	path := filepath.Join(c.DataDir(), "secret")
	if raw, err := os.ReadFile(path); err == nil {
		if s := strings.TrimSpace(string(raw)); s != "" {
			return s, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading signing secret: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	if err := os.MkdirAll(c.DataDir(), 0o700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing signing secret: %w", err)
	}
	return secret, nil
}
