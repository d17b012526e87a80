package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"SOURCE_URL", "SNAPSHOT_BACKEND", "SNAPSHOT_PATH", "REFRESH_INTERVAL", "REFRESH_ON_REQUEST", "FETCH_TIMEOUT", "WEB_PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	if cfg.Source.URL != defaultSourceURL {
		t.Errorf("Expected default source URL, got %s", cfg.Source.URL)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Expected backend %q, got %q", BackendFile, cfg.Storage.Backend)
	}
	if cfg.Storage.SnapshotPath != "./games.csv" {
		t.Errorf("Expected snapshot path ./games.csv, got %s", cfg.Storage.SnapshotPath)
	}
	if cfg.Schedule.RefreshOnRequest {
		t.Error("Expected refresh on request to be disabled by default")
	}
	if got := cfg.GetRefreshInterval(); got != 5*time.Minute {
		t.Errorf("Expected 5m refresh interval, got %v", got)
	}
	if got := cfg.GetFetchTimeout(); got != 30*time.Second {
		t.Errorf("Expected 30s fetch timeout, got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SOURCE_URL", "https://example.com/sheet.csv")
	t.Setenv("SNAPSHOT_BACKEND", "bolt")
	t.Setenv("REFRESH_ON_REQUEST", "1")
	t.Setenv("WEB_PORT", "9000")

	cfg := LoadFromEnv()

	if cfg.Source.URL != "https://example.com/sheet.csv" {
		t.Errorf("Expected overridden URL, got %s", cfg.Source.URL)
	}
	if cfg.Storage.Backend != BackendBolt {
		t.Errorf("Expected bolt backend, got %s", cfg.Storage.Backend)
	}
	if !cfg.Schedule.RefreshOnRequest {
		t.Error("Expected refresh on request to be enabled")
	}
	if cfg.Web.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Web.Port)
	}
}

func TestLoad_TOMLOverlay(t *testing.T) {
	t.Setenv("WEB_PORT", "8081")

	path := filepath.Join(t.TempDir(), "sportsball.toml")
	content := `
[source]
url = "https://sheets.example.org/export?format=csv"

[schedule]
refresh_interval = "90s"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.URL != "https://sheets.example.org/export?format=csv" {
		t.Errorf("Expected URL from file, got %s", cfg.Source.URL)
	}
	if got := cfg.GetRefreshInterval(); got != 90*time.Second {
		t.Errorf("Expected 90s, got %v", got)
	}
	// Keys absent from the file keep the environment value.
	if cfg.Web.Port != "8081" {
		t.Errorf("Expected port from env, got %s", cfg.Web.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.Source.URL = "" }, wantErr: true},
		{name: "relative url", mutate: func(c *Config) { c.Source.URL = "/export.csv" }, wantErr: true},
		{name: "ftp url", mutate: func(c *Config) { c.Source.URL = "ftp://example.com/a.csv" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "bolt without path", mutate: func(c *Config) {
			c.Storage.Backend = BackendBolt
			c.Storage.DatabasePath = ""
		}, wantErr: true},
		{name: "file without path", mutate: func(c *Config) { c.Storage.SnapshotPath = "" }, wantErr: true},
		{name: "bad interval", mutate: func(c *Config) { c.Schedule.RefreshInterval = "often" }, wantErr: true},
		{name: "negative interval", mutate: func(c *Config) { c.Schedule.RefreshInterval = "-1m" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Source.FetchTimeout = "0s" }, wantErr: true},
		{name: "no port", mutate: func(c *Config) { c.Web.Port = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Source:   SourceConfig{URL: "https://example.com/a.csv", FetchTimeout: "10s"},
				Storage:  StorageConfig{Backend: BackendFile, SnapshotPath: "games.csv", DatabasePath: "db"},
				Schedule: ScheduleConfig{RefreshInterval: "1m"},
				Web:      WebConfig{Port: "4567"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
