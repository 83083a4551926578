package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/planwing/planwing/internal/project"
	"github.com/planwing/planwing/store"
	"github.com/planwing/planwing/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".planwing"
	envPrefix  = "PLANWING"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present; a missing file is fine.
	_ = godotenv.Load()

	// Environment variable handling must be set up before reading the config
	// file so env vars can influence where the file is looked up.
	viper.SetEnvPrefix(envPrefix) // e.g. PLANWING_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	// The config file lives inside the project root dir (./.planwing by
	// default), which we need before the full unmarshal to find the file
	// itself.
	defaultRootDir := ".planwing"
	projectConfigDir := viper.GetString("project.rootDir")
	if projectConfigDir == "" {
		projectConfigDir = defaultRootDir
	}

	if cfgFileFlag != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFileFlag)
	} else if _, err := os.Stat(projectConfigDir); !os.IsNotExist(err) {
		// Project-specific config directory exists. Prioritize it.
		viper.AddConfigPath(projectConfigDir) // ./.planwing/.planwing.yaml
		viper.SetConfigName(configName)
	} else {
		// No local .planwing; walk up for a project root so commands run
		// from a subdirectory still find the project's plan data.
		if ctx, err := project.Detect("."); err == nil && ctx.MarkerType != project.MarkerNone {
			defaultRootDir = filepath.Join(ctx.RootPath, ".planwing")
			if ctx.HasPlanWingDir() {
				viper.AddConfigPath(defaultRootDir) // <root>/.planwing/.planwing.yaml
			}
		}

		// Fall back to home and current directory for a global config.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home) // $HOME/.planwing.yaml
		viper.AddConfigPath(".")  // ./.planwing.yaml
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	setConfigDefaults(defaultRootDir)

	// After all sources are configured, unmarshal into GlobalAppConfig.
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		HandleFatalError("Could not parse the configuration. Check your config file syntax.", err)
	}

	// A config file may exist but be missing these nested keys.
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}
	if GlobalAppConfig.Project.PlansDir == "" {
		GlobalAppConfig.Project.PlansDir = viper.GetString("project.plansDir")
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		HandleFatalError("Configuration is invalid. Run with --verbose for details.", err)
	}
}

// setConfigDefaults registers every config key with its default so a bare
// environment still unmarshals into a complete, valid AppConfig. The root
// dir default comes from project detection when a parent directory owns
// this project.
func setConfigDefaults(rootDir string) {
	viper.SetDefault("project.rootDir", rootDir)
	viper.SetDefault("project.plansDir", "plans")
	viper.SetDefault("project.templatesDir", "templates")
	viper.SetDefault("project.currentGoalId", "")
	viper.SetDefault("data.backend", "file")
	viper.SetDefault("data.file", "planwing.json")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("mcp.healthAddr", "")
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// GetDataFilePath returns the full path to the planning data file.
func GetDataFilePath() string {
	config := GetConfig()
	file := config.Data.File
	// The file default carries a .json extension; swap it when the sqlite
	// backend is selected and the user kept the default name.
	if config.Data.Backend == "sqlite" && file == "planwing.json" {
		file = "planwing.db"
	}
	return filepath.Join(config.Project.RootDir, config.Project.PlansDir, file)
}

// GetStore initializes and returns the planning store selected by the
// data.backend config key.
func GetStore() (store.PlanningStore, error) {
	config := GetConfig()

	var s store.PlanningStore
	switch config.Data.Backend {
	case "sqlite":
		s = store.NewSQLitePlanningStore()
	default:
		s = store.NewFilePlanningStore()
	}

	dataFilePath := GetDataFilePath()
	err := s.Initialize(map[string]string{
		"dataFile":       dataFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", dataFilePath, err)
	}
	return s, nil
}

// persistConfigValue writes a single key to the config file, creating a
// project-local one when no config file exists yet.
func persistConfigValue(key string, value any) error {
	viper.Set(key, value)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		projectConfigDir := GlobalAppConfig.Project.RootDir
		if err := os.MkdirAll(projectConfigDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configFile = filepath.Join(projectConfigDir, ".planwing.yaml")
		viper.SetConfigFile(configFile)
	}

	return viper.WriteConfig()
}

// SetCurrentGoal updates the current goal ID in the configuration and persists it.
func SetCurrentGoal(goalID string) error {
	GlobalAppConfig.Project.CurrentGoalID = goalID
	return persistConfigValue("project.currentGoalId", goalID)
}

// GetCurrentGoal returns the current goal ID from configuration.
func GetCurrentGoal() string {
	return GlobalAppConfig.Project.CurrentGoalID
}

// ClearCurrentGoal removes the current goal from configuration.
func ClearCurrentGoal() error {
	return SetCurrentGoal("")
}

// SetTelemetryEnabled persists the telemetry.enabled key to the config file.
func SetTelemetryEnabled(enabled bool) error {
	GlobalAppConfig.Telemetry.Enabled = enabled
	return persistConfigValue("telemetry.enabled", enabled)
}
