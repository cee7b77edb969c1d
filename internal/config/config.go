package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset" toml:"dataset"`
	Generator GeneratorConfig `yaml:"generator" toml:"generator"`
	Journal   JournalConfig   `yaml:"journal" toml:"journal"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp" toml:"mcp"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

type ServerConfig struct {
	Host      string `yaml:"host" toml:"host"`
	Port      int    `yaml:"port" toml:"port"`
	StaticDir string `yaml:"static_dir" toml:"static_dir"`
}

type DatasetConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type GeneratorConfig struct {
	Backend     string        `yaml:"backend" toml:"backend"`
	Host        string        `yaml:"host" toml:"host"`
	Model       string        `yaml:"model" toml:"model"`
	APIKey      string        `yaml:"api_key" toml:"api_key"`
	Timeout     time.Duration `yaml:"timeout" toml:"timeout"`
	HTTPTimeout time.Duration `yaml:"http_timeout" toml:"http_timeout"`
	Retries     int           `yaml:"retries" toml:"retries"`
	Warmup      bool          `yaml:"warmup" toml:"warmup"`
}

type JournalConfig struct {
	Driver   string         `yaml:"driver" toml:"driver"`
	Path     string         `yaml:"path" toml:"path"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Name     string `yaml:"name" toml:"name"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Hostname string `yaml:"hostname" toml:"hostname"`
	StateDir string `yaml:"state_dir" toml:"state_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// JournalDSN returns the file path or connection string for the configured
// journal driver.
func (c *Config) JournalDSN() string {
	if c.Journal.Driver == "postgres" {
		return c.Journal.Database.DSN()
	}
	return c.Journal.Path
}

// Default returns a configuration that runs without a config file: the
// dataset in the working directory, the static generator and a local
// SQLite journal.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080},
		Dataset: DatasetConfig{Path: "megaGymDataset.csv"},
		Generator: GeneratorConfig{
			Backend:     "static",
			Model:       "gpt2",
			Timeout:     30 * time.Second,
			HTTPTimeout: 60 * time.Second,
			Retries:     2,
		},
		Journal: JournalConfig{
			Driver: "sqlite",
			Path:   "fitplanner.db",
		},
		Tailscale: TailscaleConfig{Hostname: "fitplanner", StateDir: "tsnet-state"},
		MCP:       MCPConfig{Enabled: true},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads config from a YAML (or, by extension, TOML) file on top of
// Default, then applies environment variable overrides. An empty path skips
// the file.
// Env vars use the prefix FITPLANNER_ and underscore-separated paths:
//
//	FITPLANNER_SERVER_HOST, FITPLANNER_SERVER_PORT, FITPLANNER_SERVER_STATIC_DIR,
//	FITPLANNER_DATASET_PATH,
//	FITPLANNER_GENERATOR_BACKEND, FITPLANNER_GENERATOR_HOST, FITPLANNER_GENERATOR_MODEL,
//	FITPLANNER_GENERATOR_API_KEY, FITPLANNER_GENERATOR_TIMEOUT, FITPLANNER_GENERATOR_RETRIES,
//	FITPLANNER_JOURNAL_DRIVER, FITPLANNER_JOURNAL_PATH,
//	FITPLANNER_DB_HOST, FITPLANNER_DB_PORT, FITPLANNER_DB_NAME,
//	FITPLANNER_DB_USER, FITPLANNER_DB_PASSWORD, FITPLANNER_DB_SSLMODE,
//	FITPLANNER_TAILSCALE_ENABLED, FITPLANNER_TAILSCALE_HOSTNAME,
//	FITPLANNER_LOG_LEVEL, FITPLANNER_LOG_FORMAT, FITPLANNER_LOG_FILE
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("FITPLANNER_SERVER_HOST", &cfg.Server.Host)
	setInt("FITPLANNER_SERVER_PORT", &cfg.Server.Port)
	setString("FITPLANNER_SERVER_STATIC_DIR", &cfg.Server.StaticDir)
	setString("FITPLANNER_DATASET_PATH", &cfg.Dataset.Path)

	setString("FITPLANNER_GENERATOR_BACKEND", &cfg.Generator.Backend)
	setString("FITPLANNER_GENERATOR_HOST", &cfg.Generator.Host)
	setString("FITPLANNER_GENERATOR_MODEL", &cfg.Generator.Model)
	setString("FITPLANNER_GENERATOR_API_KEY", &cfg.Generator.APIKey)
	setInt("FITPLANNER_GENERATOR_RETRIES", &cfg.Generator.Retries)
	if v := os.Getenv("FITPLANNER_GENERATOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generator.Timeout = d
		}
	}

	setString("FITPLANNER_JOURNAL_DRIVER", &cfg.Journal.Driver)
	setString("FITPLANNER_JOURNAL_PATH", &cfg.Journal.Path)
	setString("FITPLANNER_DB_HOST", &cfg.Journal.Database.Host)
	setInt("FITPLANNER_DB_PORT", &cfg.Journal.Database.Port)
	setString("FITPLANNER_DB_NAME", &cfg.Journal.Database.Name)
	setString("FITPLANNER_DB_USER", &cfg.Journal.Database.User)
	setString("FITPLANNER_DB_PASSWORD", &cfg.Journal.Database.Password)
	setString("FITPLANNER_DB_SSLMODE", &cfg.Journal.Database.SSLMode)

	if v := os.Getenv("FITPLANNER_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString("FITPLANNER_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)

	setString("FITPLANNER_LOG_LEVEL", &cfg.Log.Level)
	setString("FITPLANNER_LOG_FORMAT", &cfg.Log.Format)
	setString("FITPLANNER_LOG_FILE", &cfg.Log.File)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}

	switch c.Generator.Backend {
	case "static":
	case "ollama", "openai":
		if c.Generator.Model == "" {
			return fmt.Errorf("generator.model is required for backend %q", c.Generator.Backend)
		}
	default:
		return fmt.Errorf("generator.backend must be one of ollama, openai, static (got %q)", c.Generator.Backend)
	}
	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("generator.timeout must be positive")
	}
	if c.Generator.Retries < 0 {
		return fmt.Errorf("generator.retries must not be negative")
	}

	switch c.Journal.Driver {
	case "none":
	case "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Journal.Database.Host == "" {
			return fmt.Errorf("journal.database.host is required")
		}
		if c.Journal.Database.Port == 0 {
			return fmt.Errorf("journal.database.port is required")
		}
		if c.Journal.Database.Name == "" {
			return fmt.Errorf("journal.database.name is required")
		}
		if c.Journal.Database.User == "" {
			return fmt.Errorf("journal.database.user is required")
		}
	default:
		return fmt.Errorf("journal.driver must be one of sqlite, postgres, none (got %q)", c.Journal.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
