package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
search:
  base_url: "https://content.guardianapis.com"
  term: "Nigeria"
  from_date: "2024-01-01"
  to_date: "2025-01-01"
  page_size: 20
  timeout_sec: 5
output:
  dir: "extracted_files"
  name: "mydata"
upload:
  endpoint: "s3.amazonaws.com"
  local_path: "./extracted_files/mydata.csv"
  remote_path: "s3://lettuceleaf/mydata.csv"
  use_ssl: true
logging:
  level: "info"
  sample_articles: 3
`

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Search.Term = "Nigeria"
	cfg.Search.APIKey = "test-key"
	cfg.Search.FromDate = "2024-01-01"
	cfg.Search.ToDate = "2025-01-01"
	cfg.Output.Name = "mydata"
	cfg.Upload.LocalPath = "./extracted_files/mydata.csv"
	cfg.Upload.RemotePath = "s3://lettuceleaf/mydata.csv"

	return cfg
}

func TestLoadConfig_Valid(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvAccessKeyID, "AKIA")
	t.Setenv(EnvSecretAccessKey, "secret")

	cfg, err := LoadConfig(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "Nigeria", cfg.Search.Term)
	assert.Equal(t, 20, cfg.Search.PageSize)
	assert.Equal(t, "body", cfg.Search.ShowFields, "default should survive partial YAML")
	assert.Equal(t, "env-key", cfg.Search.APIKey)
	assert.Equal(t, "AKIA", cfg.Upload.AccessKeyID)
	assert.Equal(t, "secret", cfg.Upload.SecretAccessKey)
	assert.Equal(t, 3, cfg.Logging.SampleArticles)

	require.NoError(t, cfg.ValidateSearch())
	require.NoError(t, cfg.ValidateUpload())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(createTempConfigFile(t, "search: [unterminated"))
	assert.Error(t, err)
}

func TestLoadConfig_APIKeyNotReadFromYAML(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	cfg, err := LoadConfig(createTempConfigFile(t, `
search:
  term: "Nigeria"
  api_key: "leaked"
output:
  name: "mydata"
`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Search.APIKey)
	assert.ErrorIs(t, cfg.ValidateSearch(), ErrMissingAPIKey)
}

func TestValidateSearch(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"open date range", func(c *Config) { c.Search.FromDate, c.Search.ToDate = "", "" }, nil},
		{"missing term", func(c *Config) { c.Search.Term = "  " }, ErrMissingSearchTerm},
		{"missing api key", func(c *Config) { c.Search.APIKey = "" }, ErrMissingAPIKey},
		{"bad base url", func(c *Config) { c.Search.BaseURL = "guardian" }, ErrInvalidBaseURL},
		{"page size zero", func(c *Config) { c.Search.PageSize = 0 }, ErrInvalidPageSize},
		{"page size too big", func(c *Config) { c.Search.PageSize = MaxPageSize + 1 }, ErrInvalidPageSize},
		{"bad timeout", func(c *Config) { c.Search.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"bad from date", func(c *Config) { c.Search.FromDate = "01/01/2024" }, ErrInvalidDate},
		{"bad to date", func(c *Config) { c.Search.ToDate = "2025-13-01" }, ErrInvalidDate},
		{"inverted range", func(c *Config) { c.Search.FromDate = "2025-06-01" }, ErrDateRange},
		{"missing output dir", func(c *Config) { c.Output.Dir = "" }, ErrMissingOutputDir},
		{"missing output name", func(c *Config) { c.Output.Name = "" }, ErrMissingOutputName},
		{"upper case log level", func(c *Config) { c.Logging.Level = "INFO" }, nil},
		{"mixed case log level", func(c *Config) { c.Logging.Level = "Debug" }, nil},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"negative sample", func(c *Config) { c.Logging.SampleArticles = -1 }, ErrInvalidSampleCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateSearch()
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing endpoint", func(c *Config) { c.Upload.Endpoint = "" }, ErrMissingEndpoint},
		{"missing local path", func(c *Config) { c.Upload.LocalPath = "" }, ErrMissingLocalPath},
		{"missing remote path", func(c *Config) { c.Upload.RemotePath = "" }, ErrMissingRemotePath},
		{"upper case log level", func(c *Config) { c.Logging.Level = "WARN" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateUpload()
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSearchConfig_Query(t *testing.T) {
	cfg := validConfig()

	q, err := cfg.Search.Query()
	require.NoError(t, err)

	assert.Equal(t, "Nigeria", q.Term)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, "body", q.ShowFields)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.FromDate)
	assert.Equal(t, "2025-01-01", q.ToDateString())
}

func TestSearchConfig_GetTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.Search.GetTimeout())
}

func TestDefaultLocalPath(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("extracted_files", "mydata.csv"), cfg.DefaultLocalPath())

	cfg.Output.Name = "report.txt"
	assert.Equal(t, filepath.Join("extracted_files", "report.csv"), cfg.DefaultLocalPath())
}

func TestSaveConfig_RoundTripWithoutSecrets(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	cfg := validConfig()
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.SaveConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "test-key")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Search.Term, loaded.Search.Term)
	assert.Equal(t, cfg.Upload.RemotePath, loaded.Upload.RemotePath)
}

func TestConfig_String(t *testing.T) {
	assert.Contains(t, validConfig().String(), `Term: "Nigeria"`)
}
