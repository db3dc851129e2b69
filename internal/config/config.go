package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskdeck config found (run 'taskdeck init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the taskdeck configuration.
type Config struct {
	Version int          `yaml:"version"`
	API     APIConfig    `yaml:"api"`
	Log     LogConfig    `yaml:"log"`
	TUI     TUIConfig    `yaml:"tui"`
	Server  ServerConfig `yaml:"server"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// APIConfig locates the Task API.
type APIConfig struct {
	URL     string `yaml:"url" env:"TASKDECK_API_URL"`
	Timeout string `yaml:"timeout" env:"TASKDECK_API_TIMEOUT"`
}

// LogConfig controls the diagnostic and activity logs.
type LogConfig struct {
	File     string `yaml:"file" env:"TASKDECK_LOG_FILE"`
	Activity bool   `yaml:"activity"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	DateFormat string `yaml:"date_format"`
}

// ServerConfig configures the reference Task API started by `taskdeck serve`.
type ServerConfig struct {
	Addr        string   `yaml:"addr" env:"TASKDECK_SERVER_ADDR"`
	Database    string   `yaml:"database" env:"TASKDECK_DATABASE"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		API:     APIConfig{URL: DefaultAPIURL, Timeout: DefaultAPITimeout},
		Log:     LogConfig{File: DefaultLogFile, Activity: true},
		TUI:     TUIConfig{DateFormat: DefaultDateFormat},
		Server: ServerConfig{
			Addr:        DefaultServerAddr,
			Database:    DefaultDatabase,
			CORSOrigins: append([]string{}, DefaultCORSOrigins...),
		},
	}
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// LogPath returns the diagnostic log path, or "" when logging is disabled.
// Relative paths are resolved against the config directory.
func (c *Config) LogPath() string {
	return c.resolve(c.Log.File)
}

// DatabasePath returns the sqlite path for the reference server.
func (c *Config) DatabasePath() string {
	if c.Server.Database == ":memory:" {
		return c.Server.Database
	}
	return c.resolve(c.Server.Database)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// APITimeoutDuration parses api.timeout. Returns 0 (no timeout) when empty or unparseable.
func (c *Config) APITimeoutDuration() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// DateFormat returns the configured display layout for dates.
func (c *Config) DateFormat() string {
	if c.TUI.DateFormat == "" {
		return DefaultDateFormat
	}
	return c.TUI.DateFormat
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.API.URL == "" {
		return fmt.Errorf("%w: api.url is required", ErrInvalid)
	}
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.url %q must be an absolute http(s) URL", ErrInvalid, c.API.URL)
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return fmt.Errorf("%w: invalid api.timeout %q: %w", ErrInvalid, c.API.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: api.timeout must be >= 0", ErrInvalid)
		}
	}
	if c.TUI.DateFormat != "" && time.Now().Format(c.TUI.DateFormat) == c.TUI.DateFormat {
		return fmt.Errorf("%w: tui.date_format %q contains no time layout elements", ErrInvalid, c.TUI.DateFormat)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	if c.Server.Database == "" {
		return fmt.Errorf("%w: server.database is required", ErrInvalid)
	}
	return nil
}

// ApplyEnv overlays TASKDECK_* environment variables onto the config.
// Unset variables leave the file values untouched.
func (c *Config) ApplyEnv() error {
	if err := cleanenv.ReadEnv(c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Init writes a default config into dir, creating the directory.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads, migrates, applies environment overrides to, and validates the
// config in the given directory.
func Load(dir string) (*Config, error) {
	cfg, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads and migrates the config file in dir without applying
// environment overrides or validating it.
func LoadFile(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	return &cfg, nil
}
