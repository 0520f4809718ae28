package common

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for notion-mcp.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// APIConfig holds the wrapped API configuration: where the OpenAPI document
// lives, where to send requests, and the static auth headers to attach.
type APIConfig struct {
	Name     string `toml:"name"`      // logical API name prefixed to tool names
	SpecPath string `toml:"spec_path"` // path to the OpenAPI 3.x document
	BaseURL  string `toml:"base_url"`  // overrides servers[0].url when set
	Token    string `toml:"token"`     // bearer token
	Version  string `toml:"version"`   // Notion-Version header value
	Timeout  string `toml:"timeout"`
	// Headers is an arbitrary header map for non-Notion deployments. Entries
	// here take precedence over Token/Version.
	Headers map[string]string `toml:"headers"`
}

// GetTimeout parses and returns the request timeout duration.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// AuthHeaders assembles the static headers attached to every wrapped-API
// request: bearer token plus versioning header, overlaid with any explicit
// header map entries.
func (c *APIConfig) AuthHeaders() map[string]string {
	headers := make(map[string]string)
	if c.Token != "" {
		headers["Authorization"] = "Bearer " + c.Token
	}
	if c.Version != "" {
		headers["Notion-Version"] = c.Version
	}
	for k, v := range c.Headers {
		headers[k] = v
	}
	return headers
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Notion-MCP",
			Port: "4280",
		},
		API: APIConfig{
			Name:     "notion",
			SpecPath: "notion-openapi.json",
			Version:  "2022-06-28",
			Timeout:  "60s",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/notion-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier files; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		config.API.Token = token
	}
	if version := os.Getenv("NOTION_VERSION"); version != "" {
		config.API.Version = version
	}
	if spec := os.Getenv("NOTION_OPENAPI_SPEC"); spec != "" {
		config.API.SpecPath = spec
	}
	if base := os.Getenv("NOTION_BASE_URL"); base != "" {
		config.API.BaseURL = base
	}
	if port := os.Getenv("NOTION_MCP_PORT"); port != "" {
		config.Server.Port = port
	}
	if level := os.Getenv("NOTION_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
