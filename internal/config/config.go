package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/pocket/internal/derive"
	"github.com/cleared-dev/pocket/internal/logging"
	"github.com/cleared-dev/pocket/internal/storage"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// FileName is the config file name inside the config directory.
const FileName = "pocket.yaml"

// Config represents the top-level pocket.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
}

// StorageConfig selects where the ledger lives.
type StorageConfig struct {
	Backend string `yaml:"backend"`       // "file" or "sqlite"
	Dir     string `yaml:"dir,omitempty"` // empty = "data" next to the config file
	Key     string `yaml:"key"`
}

// DisplayConfig controls report formatting.
type DisplayConfig struct {
	Currency     string `yaml:"currency"` // ISO 4217 code
	DefaultRange string `yaml:"default_range"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls versioning of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     storage.DefaultKey,
		},
		Display: DisplayConfig{
			Currency:     money.TWD,
			DefaultRange: string(derive.RangeAll),
		},
		Log: LogConfig{
			Level: logging.DefaultLevel,
		},
		Git: GitConfig{
			AuthorName:  "pocket",
			AuthorEmail: "pocket@localhost",
		},
	}
}

// DefaultPath returns <user config dir>/pocket/pocket.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "pocket", FileName)
}

// Load reads a pocket.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, but a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadEnv loads KEY=value files into the process environment. Missing
// files are ignored; variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from POCKET_* environment variables.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		name  string
		field *string
	}{
		{"POCKET_BACKEND", &c.Storage.Backend},
		{"POCKET_DATA_DIR", &c.Storage.Dir},
		{"POCKET_KEY", &c.Storage.Key},
		{"POCKET_CURRENCY", &c.Display.Currency},
		{"POCKET_RANGE", &c.Display.DefaultRange},
		{"POCKET_LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.name)); v != "" {
			*o.field = v
		}
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Sprintf("invalid storage backend %q: must be %s or %s", c.Storage.Backend, BackendFile, BackendSQLite))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, "storage key cannot be empty")
	} else if strings.ContainsAny(c.Storage.Key, `/\`) {
		errs = append(errs, fmt.Sprintf("invalid storage key %q: must not contain path separators", c.Storage.Key))
	}
	if money.GetCurrency(c.Display.Currency) == nil {
		errs = append(errs, fmt.Sprintf("unknown currency %q", c.Display.Currency))
	}
	if _, err := derive.ParseRange(c.Display.DefaultRange); err != nil {
		errs = append(errs, fmt.Sprintf("invalid default range: %v", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		errs = append(errs, "git auto_commit requires author_name and author_email")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DataDir resolves the storage directory. Relative directories are taken
// relative to the directory holding the config file.
func (c *Config) DataDir(configPath string) string {
	base := filepath.Dir(configPath)
	if c.Storage.Dir == "" {
		return filepath.Join(base, "data")
	}
	if filepath.IsAbs(c.Storage.Dir) {
		return c.Storage.Dir
	}
	return filepath.Join(base, c.Storage.Dir)
}

// Range returns the parsed default range.
func (c *Config) Range() derive.Range {
	r, err := derive.ParseRange(c.Display.DefaultRange)
	if err != nil {
		return derive.RangeAll
	}
	return r
}
