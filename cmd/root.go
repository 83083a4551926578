/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/planwing/planwing/internal/logger"
	"github.com/planwing/planwing/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTodosFound is returned when an interactive selection is attempted but no todos match.
	ErrNoTodosFound = errors.New("no todos found matching your criteria")
	// executedCommand records the command path for telemetry.
	executedCommand string
	// version is the application version.
	version = "0.1.0"
)

// GetVersion returns the application version string.
func GetVersion() string {
	return version
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "planwing",
	Short: "PlanWing breaks software goals into actionable todo plans.",
	Long: `PlanWing is a thinking-through-problems tool for software projects.
Start a planning session with a goal, capture the implementation plan as
ordered todos, and track them to completion from the terminal or from an
AI assistant speaking MCP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		executedCommand = cmd.CommandPath()
		logger.SetCommand(executedCommand)
		logger.SetBasePath(GetConfig().Project.RootDir)
		if len(args) > 0 {
			logger.SetLastInput(strings.Join(args, " "))
		}
		initTelemetry()
	},
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// return help if no args are provided
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	start := time.Now()
	err := rootCmd.Execute()
	telemetry.TrackCommand(executedCommand, time.Since(start), err == nil)
	_ = telemetry.Close()
	if err != nil {
		os.Exit(1)
	}
}

// initTelemetry wires the telemetry client when the config opts in. Both the
// config flag and the recorded consent must agree before anything is sent.
func initTelemetry() {
	cfg := GetConfig()
	if !cfg.Telemetry.Enabled {
		return
	}
	if err := telemetry.Init(cfg.Telemetry.APIKey, cfg.Telemetry.Endpoint, version); err != nil {
		LogError("telemetry init failed", err)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.planwing/.planwing.yaml or $HOME/.planwing.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "output machine-readable JSON where supported")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
