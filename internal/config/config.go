// Package config provides configuration management for the harvester binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"newsharvest/internal/models"
	"newsharvest/pkg/utils"
)

// Environment variables holding secrets. They are never read from YAML.
const (
	EnvAPIKey          = "API_KEY"
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    = "AWS_SESSION_TOKEN"
)

// MaxPageSize is the largest page size the search API accepts.
const MaxPageSize = 200

// Configuration validation errors.
var (
	ErrMissingSearchTerm  = errors.New("search.term is required")
	ErrMissingAPIKey      = errors.New("API_KEY environment variable is required")
	ErrInvalidPageSize    = errors.New("search.page_size must be between 1 and 200")
	ErrInvalidDate        = errors.New("dates must use YYYY-MM-DD")
	ErrDateRange          = errors.New("search.from_date cannot be after search.to_date")
	ErrInvalidTimeout     = errors.New("search.timeout_sec must be at least 1")
	ErrInvalidBaseURL     = errors.New("search.base_url must be an absolute http(s) URL")
	ErrMissingOutputName  = errors.New("output.name is required")
	ErrMissingOutputDir   = errors.New("output.dir is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrMissingRemotePath  = errors.New("upload.remote_path is required")
	ErrMissingLocalPath   = errors.New("upload.local_path is required")
	ErrMissingEndpoint    = errors.New("upload.endpoint is required")
	ErrInvalidSampleCount = errors.New("logging.sample_articles must be non-negative")
)

// Config represents the complete harvester configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig describes what to ask the search API for.
type SearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	Term       string `yaml:"term"`
	FromDate   string `yaml:"from_date"`
	ToDate     string `yaml:"to_date"`
	ShowFields string `yaml:"show_fields"`
	APIKey     string `yaml:"-"`
	PageSize   int    `yaml:"page_size"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// OutputConfig defines where extracted rows are appended.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

// UploadConfig defines the object store destination.
type UploadConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	LocalPath       string `yaml:"local_path"`
	RemotePath      string `yaml:"remote_path"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
	SessionToken    string `yaml:"-"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level          string `yaml:"level"`
	File           string `yaml:"file"`
	MaxSizeMB      int    `yaml:"max_size_mb"`
	MaxBackups     int    `yaml:"max_backups"`
	SampleArticles int    `yaml:"sample_articles"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL:    "https://content.guardianapis.com",
			ShowFields: "body",
			PageSize:   20,
			TimeoutSec: 5,
		},
		Output: OutputConfig{
			Dir: "extracted_files",
		},
		Upload: UploadConfig{
			Endpoint: "s3.amazonaws.com",
			UseSSL:   true,
		},
		Logging: LoggingConfig{
			Level:          "info",
			MaxSizeMB:      10,
			MaxBackups:     3,
			SampleArticles: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
// and fills secrets from the environment. It does not validate.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv copies secrets from the process environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Search.APIKey = v
	}

	if v := os.Getenv(EnvAccessKeyID); v != "" {
		c.Upload.AccessKeyID = v
	}

	if v := os.Getenv(EnvSecretAccessKey); v != "" {
		c.Upload.SecretAccessKey = v
	}

	if v := os.Getenv(EnvSessionToken); v != "" {
		c.Upload.SessionToken = v
	}
}

// SaveConfig saves configuration to YAML file. Secrets are not written.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidateSearch validates everything the crawler needs.
func (c *Config) ValidateSearch() error {
	s := c.Search

	if strings.TrimSpace(s.Term) == "" {
		return ErrMissingSearchTerm
	}

	if s.APIKey == "" {
		return ErrMissingAPIKey
	}

	if !utils.NewHTTPHelper().IsValidURL(s.BaseURL) {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, s.BaseURL)
	}

	if s.PageSize < 1 || s.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}

	if s.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	from, err := parseDate(s.FromDate)
	if err != nil {
		return fmt.Errorf("search.from_date: %w", err)
	}

	to, err := parseDate(s.ToDate)
	if err != nil {
		return fmt.Errorf("search.to_date: %w", err)
	}

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return ErrDateRange
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if strings.TrimSpace(c.Output.Name) == "" {
		return ErrMissingOutputName
	}

	return c.validateLogging()
}

// ValidateUpload validates everything the uploader needs.
func (c *Config) ValidateUpload() error {
	if c.Upload.Endpoint == "" {
		return ErrMissingEndpoint
	}

	if c.Upload.LocalPath == "" {
		return ErrMissingLocalPath
	}

	if c.Upload.RemotePath == "" {
		return ErrMissingRemotePath
	}

	return c.validateLogging()
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	if c.Logging.SampleArticles < 0 {
		return ErrInvalidSampleCount
	}

	return nil
}

// Query builds the first-page query. Call ValidateSearch first.
func (s *SearchConfig) Query() (models.SearchQuery, error) {
	from, err := parseDate(s.FromDate)
	if err != nil {
		return models.SearchQuery{}, fmt.Errorf("search.from_date: %w", err)
	}

	to, err := parseDate(s.ToDate)
	if err != nil {
		return models.SearchQuery{}, fmt.Errorf("search.to_date: %w", err)
	}

	return models.SearchQuery{
		Term:       s.Term,
		FromDate:   from,
		ToDate:     to,
		PageSize:   s.PageSize,
		Page:       1,
		ShowFields: s.ShowFields,
	}, nil
}

// GetTimeout returns the per-request timeout.
func (s *SearchConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// DefaultLocalPath is where the crawler writes for the configured output name.
func (c *Config) DefaultLocalPath() string {
	return filepath.Join(c.Output.Dir, utils.WithExtension(c.Output.Name, ".csv"))
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Term: %q, From: %s, To: %s, PageSize: %d, Output: %s/%s}",
		c.Search.Term,
		c.Search.FromDate,
		c.Search.ToDate,
		c.Search.PageSize,
		c.Output.Dir,
		c.Output.Name,
	)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	return t, nil
}
