/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	MCP       MCPConfig       `mapstructure:"mcp" validate:"omitempty"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" validate:"omitempty"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir       string `mapstructure:"rootDir" validate:"required"`
	PlansDir      string `mapstructure:"plansDir" validate:"required"`
	TemplatesDir  string `mapstructure:"templatesDir" validate:"omitempty"`
	CurrentGoalID string `mapstructure:"currentGoalId" validate:"omitempty,uuid4"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	// Backend selects the storage engine: file (default) or sqlite.
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	File    string `mapstructure:"file" validate:"required"`
	// Format applies to the file backend only.
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// MCPConfig holds settings for the MCP server surface
type MCPConfig struct {
	// HealthAddr, when non-empty, serves a liveness probe alongside stdio.
	HealthAddr string `mapstructure:"healthAddr" validate:"omitempty,hostname_port"`
}

// TelemetryConfig holds opt-in anonymous usage telemetry settings
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	// Endpoint overrides the default ingestion host (self-hosted setups).
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}
