package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lfs-lab/certtrack/internal/table"
)

// Defaults applied by New.
const (
	DefaultPageSize   = 10
	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8080
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"

	// MissingTrainingsReport is the built-in report downloaded by "report download".
	MissingTrainingsReport = "missing-trainings"

	configDirName  = ".certtrack"
	configFileName = "config.yaml"
)

// Config is the root certtrack configuration.
type Config struct {
	Logging LoggingConfig           `yaml:"logging"`
	Pager   PagerConfig             `yaml:"pager"`
	Tables  []table.Source          `yaml:"tables"`
	Server  ServerConfig            `yaml:"server"`
	API     APIConfig               `yaml:"api"`
	Session SessionConfig           `yaml:"session"`
	Reports map[string]ReportConfig `yaml:"reports"`

	// path is the file the config was read from, if any.
	path string
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// PagerConfig holds page sizes. PageSizes overrides DefaultPageSize per table name.
type PagerConfig struct {
	DefaultPageSize int            `yaml:"default_page_size"`
	PageSizes       map[string]int `yaml:"page_sizes"`
}

// ServerConfig is the listen address of "certtrack serve".
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// APIConfig points at the tracker backend.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	CSRFToken string `yaml:"csrf_token"`
}

// SessionConfig locates the file that stands in for browser session storage.
type SessionConfig struct {
	File string `yaml:"file"`
}

// ReportConfig describes one downloadable CSV report.
type ReportConfig struct {
	Name  string            `yaml:"name"`
	URL   string            `yaml:"url"`
	Query map[string]string `yaml:"query"`
}

// Validation errors.
var (
	ErrInvalidPageSize = errors.New("page size must be > 0")
	ErrInvalidPort     = errors.New("server port must be between 1 and 65535")
	ErrDuplicateTable  = errors.New("duplicate table name")
)

// New returns the default configuration with the user's config file applied
// on top when one exists. Read errors leave the defaults in place.
func New() *Config {
	cfg := Defaults()

	path := ConfigFilePath()
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if err := ShallowMergeYAML(cfg, path); err != nil {
		l := GetLogger()
		l.Warn().
			Str("component", "config").
			Str("operation", "load").
			Str("path", path).
			Err(err).
			Msg("failed to read config file, using defaults")
		return cfg
	}
	cfg.path = path
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Defaults returns the built-in configuration without reading any file.
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	sessionFile := ""
	if home != "" {
		sessionFile = filepath.Join(home, configDirName, "session.json")
	}

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Pager: PagerConfig{
			DefaultPageSize: DefaultPageSize,
			PageSizes:       map[string]int{"rooms": 20},
		},
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Session: SessionConfig{File: sessionFile},
		Reports: map[string]ReportConfig{
			MissingTrainingsReport: {
				Name: "TRMS - Report - Missing Trainings",
				URL:  "/api/reports/missing-trainings/",
			},
		},
	}
	cfg.applyEnv()
	return cfg
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFilePath returns $CERTTRACK_CONFIG or ~/.certtrack/config.yaml.
func ConfigFilePath() string {
	if p := os.Getenv("CERTTRACK_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, configFileName)
}

// Path returns the file the config was read from, or "".
func (c *Config) Path() string {
	return c.path
}

// applyDefaults refills fields left empty by a section that replaced the defaults.
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}

func (c *Config) applyEnv() {
	if lvl := os.Getenv("CERTTRACK_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if u := os.Getenv("CERTTRACK_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if tok := os.Getenv("CERTTRACK_CSRF_TOKEN"); tok != "" {
		c.API.CSRFToken = tok
	}
}

// Validate checks page sizes, the server port and table names.
func (c *Config) Validate() error {
	if c.Pager.DefaultPageSize <= 0 {
		return fmt.Errorf("%w: default_page_size=%d", ErrInvalidPageSize, c.Pager.DefaultPageSize)
	}
	for name, size := range c.Pager.PageSizes {
		if size <= 0 {
			return fmt.Errorf("%w: page_sizes.%s=%d", ErrInvalidPageSize, name, size)
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.Server.Port)
	}
	seen := make(map[string]bool, len(c.Tables))
	for _, src := range c.Tables {
		if seen[src.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateTable, src.Name)
		}
		seen[src.Name] = true
		if err := src.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PageSizeFor returns the page size configured for tableName.
func (c *Config) PageSizeFor(tableName string) int {
	if size, ok := c.Pager.PageSizes[tableName]; ok && size > 0 {
		return size
	}
	if c.Pager.DefaultPageSize > 0 {
		return c.Pager.DefaultPageSize
	}
	return DefaultPageSize
}

// Report returns the named report configuration.
func (c *Config) Report(name string) (ReportConfig, bool) {
	r, ok := c.Reports[name]
	return r, ok
}

// Save writes the config as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
