// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appDir = ".cbook"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
}

type Storage struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Key     string `yaml:"key"`
}

type Log struct {
	File  string `yaml:"file"`  // relative paths resolve against storage.dir
	Level string `yaml:"level"` // debug | info | warn | error
}

func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Backend: BackendFile,
			Dir:     defaultDataDir(),
			Key:     "contacts",
		},
		Log: Log{
			File:  "cbook.log",
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(homeDir, appDir)
}

// DefaultPaths lists the config layers read when no explicit file is given,
// lowest priority first.
func DefaultPaths() []string {
	return []string{
		filepath.Join(defaultDataDir(), "config.yaml"),
		"cbook.yaml",
	}
}

// Load reads config from the given layers, applies environment overrides and
// validates the result.
func Load(paths ...string) (*Config, error) {
	cfg, err := LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("config: storage.backend must be %q, %q or %q, got %q",
			BackendFile, BackendSQLite, BackendMemory, c.Storage.Backend)
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Dir == "" {
		return errors.New("config: storage.dir cannot be empty")
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("config: storage.key cannot be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CBOOK_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CBOOK_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("CBOOK_STORAGE_KEY"); v != "" {
		c.Storage.Key = v
	}
	if v := os.Getenv("CBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("CBOOK_LOG_FILE"); ok {
		c.Log.File = v
	}
	return nil
}

// Passphrase returns the sealing passphrase, if any. It is only ever read from
// the environment so it never lands in a config file.
func Passphrase() string {
	return os.Getenv("CBOOK_PASSPHRASE")
}

// LogPath resolves the log file against the data directory. Empty means
// logging is disabled.
func (c *Config) LogPath() string {
	if c.Log.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.Storage.Dir, c.Log.File)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	Backend *string `yaml:"backend"`
	Dir     *string `yaml:"dir"`
	Key     *string `yaml:"key"`
}

type rawLog struct {
	File  *string `yaml:"file"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file. Returns nil if the file does not
// exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.Backend != nil {
			c.Storage.Backend = *layer.Storage.Backend
		}
		if layer.Storage.Dir != nil {
			c.Storage.Dir = *layer.Storage.Dir
		}
		if layer.Storage.Key != nil {
			c.Storage.Key = *layer.Storage.Key
		}
	}
	if layer.Log != nil {
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
	}
}
