package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const defaultSourceURL = "https://docs.google.com/spreadsheets/d/1tDTAHYOe-hjks_0zYVs9f9lgJbYBU3Vj4a3DQ6kYZVc/export?format=csv&id=1tDTAHYOe-hjks_0zYVs9f9lgJbYBU3Vj4a3DQ6kYZVc&gid=156180468"

const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

type Config struct {
	Source   SourceConfig   `toml:"source"`
	Storage  StorageConfig  `toml:"storage"`
	Schedule ScheduleConfig `toml:"schedule"`
	Web      WebConfig      `toml:"web"`
	Calendar CalendarConfig `toml:"calendar"`
}

type SourceConfig struct {
	URL          string `toml:"url"`
	FetchTimeout string `toml:"fetch_timeout"`
}

type StorageConfig struct {
	Backend      string `toml:"backend"`
	SnapshotPath string `toml:"snapshot_path"`
	DatabasePath string `toml:"database_path"`
}

type ScheduleConfig struct {
	RefreshInterval  string `toml:"refresh_interval"`
	RefreshOnRequest bool   `toml:"refresh_on_request"`
}

type WebConfig struct {
	Port string `toml:"port"`
}

type CalendarConfig struct {
	Name string `toml:"name"`
}

func LoadFromEnv() *Config {
	return &Config{
		Source: SourceConfig{
			URL:          getEnv("SOURCE_URL", defaultSourceURL),
			FetchTimeout: getEnv("FETCH_TIMEOUT", "30s"),
		},
		Storage: StorageConfig{
			Backend:      getEnv("SNAPSHOT_BACKEND", BackendFile),
			SnapshotPath: getEnv("SNAPSHOT_PATH", "./games.csv"),
			DatabasePath: getEnv("DB_PATH", "./sportsball.db"),
		},
		Schedule: ScheduleConfig{
			RefreshInterval:  getEnv("REFRESH_INTERVAL", "5m"),
			RefreshOnRequest: getEnvBool("REFRESH_ON_REQUEST", false),
		},
		Web: WebConfig{
			Port: getEnv("WEB_PORT", "4567"),
		},
		Calendar: CalendarConfig{
			Name: getEnv("CALENDAR_NAME", "Sports Schedule"),
		},
	}
}

// Load reads the environment and, when path is non-empty, overlays the TOML
// file at path. Keys absent from the file keep their environment value.
func Load(path string) (*Config, error) {
	cfg := LoadFromEnv()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}

	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source.url must be an absolute http(s) URL: %q", c.Source.URL)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.SnapshotPath == "" {
			return fmt.Errorf("storage.snapshot_path is required for the file backend")
		}
	case BackendBolt:
		if c.Storage.DatabasePath == "" {
			return fmt.Errorf("storage.database_path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}

	interval, err := time.ParseDuration(c.Schedule.RefreshInterval)
	if err != nil {
		return fmt.Errorf("invalid refresh_interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("refresh_interval must be positive")
	}

	d, err := time.ParseDuration(c.Source.FetchTimeout)
	if err != nil {
		return fmt.Errorf("invalid fetch_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}

	if c.Web.Port == "" {
		return fmt.Errorf("web.port is required")
	}

	return nil
}

func (c *Config) GetRefreshInterval() time.Duration {
	d, _ := time.ParseDuration(c.Schedule.RefreshInterval)
	return d
}

func (c *Config) GetFetchTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Source.FetchTimeout)
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
