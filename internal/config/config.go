// Package config provides configuration for the explorer.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	apperrors "github.com/climatevision/explorer/internal/errors"
)

// Config holds the explorer configuration.
type Config struct {
	// DataDir is the base directory for all data files
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Diff configuration
	Diff DiffConfig `json:"diff" yaml:"diff"`

	// Export configuration
	Export ExportConfig `json:"export" yaml:"export"`

	// Store configuration
	Store StoreConfig `json:"store" yaml:"store"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// ValueSet configuration
	ValueSet ValueSetConfig `json:"valueset" yaml:"valueset"`
}

// DiffConfig holds comparison settings.
type DiffConfig struct {
	// TolerancePercent is the relative tolerance in percent (1.0 means 1%)
	TolerancePercent float64 `json:"tolerance_percent" yaml:"tolerance_percent"`
}

// ExportConfig holds clipboard export settings.
type ExportConfig struct {
	// Locale is the BCP 47 tag numbers are formatted for
	Locale string `json:"locale" yaml:"locale"`

	// MaxFractionDigits caps the digits after the decimal separator
	MaxFractionDigits int `json:"max_fraction_digits" yaml:"max_fraction_digits"`
}

// StoreConfig holds the run catalog settings.
type StoreConfig struct {
	// Path is the SQLite database file
	Path string `json:"path" yaml:"path"`
}

// StorageConfig holds document storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type"`

	// Path is the local storage path (for local type)
	Path string `json:"path" yaml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// UsePathStyle enables path-style addressing (MinIO)
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style"`
}

// ValueSetConfig holds value set cache settings.
type ValueSetConfig struct {
	// CacheEntries is the number of resolved value sets kept in memory
	CacheEntries int `json:"cache_entries" yaml:"cache_entries"`
}

const defaultDataDir = "./data/explorer"

// DefaultConfig returns the default configuration for local use.
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaultDataDir,
		Diff: DiffConfig{
			TolerancePercent: 1.0,
		},
		Export: ExportConfig{
			Locale:            "de",
			MaxFractionDigits: 3,
		},
		Storage: StorageConfig{
			Type: "local",
		},
		ValueSet: ValueSetConfig{
			CacheEntries: 64,
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.DataDir, "runs.db")
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.DataDir, "storage")
	}
}

// ToleranceFraction returns the diff tolerance as a fraction.
func (c *Config) ToleranceFraction() float64 {
	return c.Diff.TolerancePercent / 100
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return invalid("data_dir is required")
	}

	if c.Diff.TolerancePercent < 0 {
		return apperrors.NewValidationError(apperrors.CodeInvalidTolerance,
			fmt.Sprintf("diff.tolerance_percent must not be negative, got %g", c.Diff.TolerancePercent))
	}

	if _, err := language.Parse(c.Export.Locale); err != nil {
		return invalid(fmt.Sprintf("export.locale %q is not a valid language tag", c.Export.Locale))
	}

	if c.Export.MaxFractionDigits < 0 || c.Export.MaxFractionDigits > 15 {
		return invalid(fmt.Sprintf("export.max_fraction_digits must be between 0 and 15, got %d", c.Export.MaxFractionDigits))
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return invalid(fmt.Sprintf("invalid storage type: %s (must be local or s3)", c.Storage.Type))
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return invalid("s3.bucket is required when storage type is s3")
	}

	return nil
}

func invalid(message string) error {
	return apperrors.NewValidationError(apperrors.CodeInvalidConfig, message)
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is fine.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the EXPLORER_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("EXPLORER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Diff configuration
	if v := os.Getenv("EXPLORER_DIFF_TOLERANCE_PERCENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Diff.TolerancePercent = f
		}
	}

	// Export configuration
	if v := os.Getenv("EXPLORER_EXPORT_LOCALE"); v != "" {
		cfg.Export.Locale = v
	}
	if v := os.Getenv("EXPLORER_EXPORT_MAX_FRACTION_DIGITS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Export.MaxFractionDigits)
	}

	// Store configuration
	if v := os.Getenv("EXPLORER_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}

	// Storage configuration
	if v := os.Getenv("EXPLORER_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("EXPLORER_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("EXPLORER_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("EXPLORER_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("EXPLORER_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("EXPLORER_S3_USE_PATH_STYLE"); v != "" {
		cfg.Storage.S3.UsePathStyle = v == "true" || v == "1"
	}

	// ValueSet configuration
	if v := os.Getenv("EXPLORER_VALUESET_CACHE_ENTRIES"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.ValueSet.CacheEntries)
	}
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		filepath.Dir(c.Store.Path),
	}
	if c.Storage.Type == "local" {
		dirs = append(dirs, c.Storage.Path)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
