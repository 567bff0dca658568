package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	PasswordEnvVar    = "TRACKERSEAL_PASSWORD"
	StrictExitEnvVar  = "TRACKERSEAL_STRICT_EXIT"
	LogLevelEnvVar    = "TRACKERSEAL_LOG_LEVEL"
	DirectoryEnvVar   = "TRACKERSEAL_DIRECTORY"
	DatabaseURLEnvVar = "DB_URL"

	defaultEnvFile   = ".env"
	defaultDirectory = "users.sqlite"
	defaultOutPath   = "config_info"
)

// Config is the environment-derived configuration. Flags override it.
type Config struct {
	Password    string
	StrictExit  bool
	LogLevel    slog.Level
	Directory   string
	DatabaseURL string
}

// loadConfig reads envFile (or ./.env when present) without overriding
// variables that are already set, then reads the environment.
func loadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(defaultEnvFile); err == nil {
		if err := godotenv.Load(defaultEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", defaultEnvFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Password:    os.Getenv(PasswordEnvVar),
		LogLevel:    slog.LevelWarn,
		Directory:   defaultDirectory,
		DatabaseURL: os.Getenv(DatabaseURLEnvVar),
	}

	if v := os.Getenv(StrictExitEnvVar); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", StrictExitEnvVar, err)
		}
		cfg.StrictExit = strict
	}

	if v := os.Getenv(LogLevelEnvVar); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", LogLevelEnvVar, err)
		}
	}

	if v := os.Getenv(DirectoryEnvVar); v != "" {
		cfg.Directory = v
	}

	return cfg, nil
}

// apply folds flag values over the environment
func (c *Config) apply(opts *Options) {
	if opts.StrictExit {
		c.StrictExit = true
	}
	if opts.Verbose {
		c.LogLevel = slog.LevelDebug
	}
	if opts.Directory != "" {
		c.Directory = opts.Directory
	}
	if opts.DatabaseURL != "" {
		c.DatabaseURL = opts.DatabaseURL
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
