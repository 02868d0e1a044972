package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLite = "sqlite" // blobs table in a sqlite database
	BackendFile   = "file"   // one JSON file per key
)

// DefaultKey is the blob key the shipment collection is stored under.
const DefaultKey = "mitra10_pengiriman"

const (
	dirName  = ".resi"
	fileName = "config.yaml"
)

// Config represents the resi configuration
type Config struct {
	Backend  string `yaml:"backend"`            // "sqlite" or "file"
	DBPath   string `yaml:"db_path,omitempty"`  // sqlite backend
	BlobDir  string `yaml:"blob_dir,omitempty"` // file backend
	Key      string `yaml:"key"`
	Operator string `yaml:"operator,omitempty"` // petugas recorded in logs
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"` // "-" logs to stderr
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Config{
		Backend:  BackendSQLite,
		DBPath:   filepath.Join(home, dirName, "resi.db"),
		BlobDir:  filepath.Join(home, dirName, "blobs"),
		Key:      DefaultKey,
		LogLevel: "info",
		LogFile:  filepath.Join(home, dirName, "resi.log"),
	}, nil
}

// LoadConfig reads .resi/config.yaml from dir, falling back to
// ~/.resi/config.yaml and then to defaults. Environment variables
// (RESI_BACKEND, RESI_DB_PATH, RESI_BLOB_DIR, RESI_OPERATOR, RESI_LOG_LEVEL,
// RESI_LOG_FILE) override file values.
func LoadConfig(dir string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	path, err := findConfigFile(dir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes .resi/config.yaml to dir.
func SaveConfig(dir string, cfg *Config) error {
	resiDir := filepath.Join(dir, dirName)
	if err := os.MkdirAll(resiDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", dirName, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(resiDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ConfigPath returns where SaveConfig writes for dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, dirName, fileName)
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

func findConfigFile(dir string) (string, error) {
	candidates := []string{}
	if dir != "" {
		candidates = append(candidates, ConfigPath(dir))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, ConfigPath(home))
	}

	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config: %w", err)
		}
	}
	return "", nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"RESI_BACKEND":   &cfg.Backend,
		"RESI_DB_PATH":   &cfg.DBPath,
		"RESI_BLOB_DIR":  &cfg.BlobDir,
		"RESI_OPERATOR":  &cfg.Operator,
		"RESI_LOG_LEVEL": &cfg.LogLevel,
		"RESI_LOG_FILE":  &cfg.LogFile,
	}
	for env, field := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendSQLite, BackendFile)
	}

	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}

	var err error
	if c.DBPath, err = expandHome(c.DBPath); err != nil {
		return err
	}
	if c.BlobDir, err = expandHome(c.BlobDir); err != nil {
		return err
	}
	if c.LogFile, err = expandHome(c.LogFile); err != nil {
		return err
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
