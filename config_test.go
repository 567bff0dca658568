package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, slog.LevelWarn)
	}
	if cfg.Directory != defaultDirectory {
		t.Errorf("Directory = %q, want %q", cfg.Directory, defaultDirectory)
	}
	if cfg.StrictExit {
		t.Error("StrictExit should default to false")
	}
	if cfg.Password != "" || cfg.DatabaseURL != "" {
		t.Errorf("unexpected password/database URL: %+v", cfg)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	isolateEnv(t)
	t.Setenv(PasswordEnvVar, "env password")
	t.Setenv(StrictExitEnvVar, "1")
	t.Setenv(LogLevelEnvVar, "debug")
	t.Setenv(DirectoryEnvVar, "/var/lib/tracker/users.sqlite")
	t.Setenv(DatabaseURLEnvVar, "https://tracker.example.test")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Password != "env password" {
		t.Errorf("Password = %q", cfg.Password)
	}
	if !cfg.StrictExit {
		t.Error("StrictExit = false, want true")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Directory != "/var/lib/tracker/users.sqlite" {
		t.Errorf("Directory = %q", cfg.Directory)
	}
	if cfg.DatabaseURL != "https://tracker.example.test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "tracker.env")
	content := "DB_URL=https://from-file.example.test\nTRACKERSEAL_STRICT_EXIT=true\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.DatabaseURL != "https://from-file.example.test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if !cfg.StrictExit {
		t.Error("StrictExit from env file not applied")
	}
}

func TestLoadConfig_EnvironmentWinsOverEnvFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv(DatabaseURLEnvVar, "https://from-env.example.test")
	path := filepath.Join(t.TempDir(), "tracker.env")
	if err := os.WriteFile(path, []byte("DB_URL=https://from-file.example.test\n"), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.DatabaseURL != "https://from-env.example.test" {
		t.Errorf("DatabaseURL = %q, want the environment value", cfg.DatabaseURL)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"strict exit", StrictExitEnvVar, "sometimes"},
		{"log level", LogLevelEnvVar, "loud"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := loadConfig(""); err == nil {
				t.Errorf("loadConfig() accepted %s=%q", tc.key, tc.value)
			}
		})
	}

	t.Run("missing env file", func(t *testing.T) {
		isolateEnv(t)
		if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.env")); err == nil {
			t.Error("loadConfig() accepted a missing env file")
		}
	})
}

func TestConfig_ApplyFlags(t *testing.T) {
	cfg := &Config{LogLevel: slog.LevelWarn, Directory: defaultDirectory, DatabaseURL: "env"}
	cfg.apply(&Options{StrictExit: true, Verbose: true, Directory: "flag.sqlite", DatabaseURL: "flag"})

	if !cfg.StrictExit || cfg.LogLevel != slog.LevelDebug || cfg.Directory != "flag.sqlite" || cfg.DatabaseURL != "flag" {
		t.Errorf("apply() = %+v", cfg)
	}
}
