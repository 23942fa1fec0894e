package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validCSVConfig(t *testing.T) Config {
	t.Helper()
	csvPath := filepath.Join(t.TempDir(), "waste.csv")
	if err := os.WriteFile(csvPath, []byte("Date,Department,Weight_kg,Infectious\n"), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return Config{
		Port:        "8081",
		DataBackend: "csv",
		CSVPath:     csvPath,
		CacheSize:   100,
		CacheTTL:    5 * time.Minute,
		LogLevel:    "info",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid csv backend config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid sqlite backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = filepath.Join(os.TempDir(), "wasteboard-test.db")
			},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres': must be one of [csv sqlite]",
		},
		{
			name:        "csv backend with missing file",
			mutate:      func(c *Config) { c.CSVPath = "/nonexistent/waste.csv" },
			wantErr:     true,
			errorString: "CSV file does not exist",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "invalid cache size",
			mutate:      func(c *Config) { c.CacheSize = 0 },
			wantErr:     true,
			errorString: "invalid view cache size 0",
		},
		{
			name:        "invalid cache TTL",
			mutate:      func(c *Config) { c.CacheTTL = time.Millisecond },
			wantErr:     true,
			errorString: "invalid view cache TTL",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCSVConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "CSV_PATH", "SQLITE_DB_PATH", "VIEW_CACHE_SIZE", "VIEW_CACHE_TTL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.DataBackend != "csv" {
		t.Fatalf("backend = %q", cfg.DataBackend)
	}
	if cfg.CacheSize != 100 || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("cache defaults = %d/%v", cfg.CacheSize, cfg.CacheTTL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("VIEW_CACHE_TTL", "30s")
	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != "sqlite" || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("env override not applied: %+v", cfg)
	}
}
